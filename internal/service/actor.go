package service

// Capability names a role-derived permission granted to an actor by the
// surrounding platform. The engine never resolves roles itself; it only
// checks the capabilities handed to it.
type Capability string

const (
	// CapModerate 可以锁定/置顶/发布/删除他人内容并审核举报
	CapModerate Capability = "moderate"
	// CapViewHistory 可以查看回帖的编辑历史
	CapViewHistory Capability = "view_history"
	// CapRestore 可以将回帖恢复到历史版本
	CapRestore Capability = "restore"
)

// Actor identifies the user performing an operation together with the
// capability set resolved by the auth collaborator.
type Actor struct {
	ID           uint
	Capabilities []Capability
}

// Can reports whether the actor holds the given capability.
func (a Actor) Can(cap Capability) bool {
	for _, c := range a.Capabilities {
		if c == cap {
			return true
		}
	}
	return false
}

// IsModerator reports whether the actor may act on others' content.
func (a Actor) IsModerator() bool {
	return a.Can(CapModerate)
}
