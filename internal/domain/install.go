package domain

// Message permission bits grantable to a bot.
const (
	PermText uint32 = 1 << iota
	PermImage
	PermVideo
	PermAudio
	PermFile
	PermPoll
	PermGiphy
)

// EncodedPermissions is a compact permission grant, one bit per permission,
// split by the category it applies to.
type EncodedPermissions struct {
	Chat      uint32 `json:"chat,omitempty" msgpack:"chat,omitempty"`
	Community uint32 `json:"community,omitempty" msgpack:"community,omitempty"`
	Message   uint32 `json:"message,omitempty" msgpack:"message,omitempty"`
}

// HasMessage reports whether a message permission bit is granted.
func (p EncodedPermissions) HasMessage(bit uint32) bool {
	return p.Message&bit != 0
}

// InstallationRecord is the grant state received from the platform when the
// bot is installed at a location. Replaced wholesale on re-install.
type InstallationRecord struct {
	APIGateway                   string             `json:"apiGateway"`
	GrantedCommandPermissions    EncodedPermissions `json:"grantedCommandPermissions"`
	GrantedAutonomousPermissions EncodedPermissions `json:"grantedAutonomousPermissions"`
}

// Installation ties a location, its derived action scope, and the granted
// permission record together. At most one exists per location key.
type Installation struct {
	Location InstallationLocation `json:"location"`
	Scope    ActionScope          `json:"scope"`
	Record   InstallationRecord   `json:"record"`
}
