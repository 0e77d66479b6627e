package events

import "fmt"

// DisplayRoom is the per-display channel (schedule events, direct commands).
func DisplayRoom(displayID int) string {
	return fmt.Sprintf("display/%d", displayID)
}

// GroupRoom is the shared channel every member of a sync group subscribes to.
func GroupRoom(groupID int) string {
	return fmt.Sprintf("group/%d", groupID)
}
