package physics

// Collision group bits for Collider.Layer and Collider.Mask. Games may
// define further bits above LayerUser.
const (
	LayerDefault uint32 = 1 << iota
	LayerGround
	LayerPlayer
	LayerEnemy
	LayerTrigger
	// LayerUser is the first bit free for game-specific groups.
	LayerUser
)

// MaskAll matches every collision group.
const MaskAll = ^uint32(0)
