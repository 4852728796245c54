// Package notify carries refresh hints between console sessions. Hints say
// "re-fetch", never what changed, so a lost hint costs only latency.
package notify

import "github.com/jadamsuryateja/feedback-console/internal/model"

// Room names.
const (
	RoomAdmin        = "admin"
	RoomAllBranches  = "all-branches"
	RoomCoordinators = "coordinators"
	RoomBSH          = "bsh"

	branchRoomPrefix = "branch-"
)

// BranchRoom is the room of one branch's coordinators.
func BranchRoom(branch string) string { return branchRoomPrefix + branch }

// RoomsFor returns the rooms a user may be a member of.
func RoomsFor(id model.Identity) []string {
	switch id.Role {
	case model.RoleAdmin:
		return []string{RoomAdmin, RoomAllBranches}
	case model.RoleCoordinator:
		if id.Branch == "" {
			return []string{RoomCoordinators}
		}
		return []string{BranchRoom(id.Branch), RoomCoordinators}
	case model.RoleBSH:
		return []string{RoomBSH}
	}
	return nil
}

// TargetRooms returns the rooms that must hear about a change to branch.
// An empty branch reaches everyone except branch rooms.
func TargetRooms(branch string) []string {
	rooms := []string{RoomAdmin, RoomAllBranches}
	switch {
	case branch == "":
		return append(rooms, RoomCoordinators, RoomBSH)
	case model.IsBSHBranch(branch):
		return append(rooms, RoomBSH)
	}
	return append(rooms, BranchRoom(branch), RoomCoordinators)
}

// RelayBranch returns the branch a config-updated frame from id may announce.
// Coordinators speak only for their own branch and BSH users for the BSH
// tag; admins may name any branch.
func RelayBranch(id model.Identity, requested string) (string, bool) {
	switch id.Role {
	case model.RoleAdmin:
		return requested, true
	case model.RoleCoordinator:
		return id.Branch, id.Branch != ""
	case model.RoleBSH:
		return model.BSHTag, true
	}
	return "", false
}
