package gateway

import "github.com/soyeahso/ocbridge/internal/domain"

// ParamDefinition describes one argument a command accepts.
type ParamDefinition struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required,omitempty"`
}

// CommandDefinition describes one slash command the bot offers and the
// permissions it needs to fulfil it.
type CommandDefinition struct {
	Name        string                    `json:"name"`
	Description string                    `json:"description,omitempty"`
	Params      []ParamDefinition         `json:"params,omitempty"`
	Permissions domain.EncodedPermissions `json:"permissions"`
}

// AutonomousConfig describes the permissions the bot wants for unprompted
// actions (welcomes, notifications).
type AutonomousConfig struct {
	Permissions domain.EncodedPermissions `json:"permissions"`
}

// BotDefinition is the capability schema the platform reads at install
// time.
type BotDefinition struct {
	Description      string              `json:"description"`
	Commands         []CommandDefinition `json:"commands"`
	AutonomousConfig *AutonomousConfig   `json:"autonomousConfig,omitempty"`
}

// DefaultDefinition returns the bridge's command and permission schema.
func DefaultDefinition() BotDefinition {
	text := domain.EncodedPermissions{Message: domain.PermText}
	return BotDefinition{
		Description: "Bridges this chat to an autonomous agent runtime.",
		Commands: []CommandDefinition{
			{
				Name:        "ask",
				Description: "Send a prompt to the agent and post its reply here.",
				Params: []ParamDefinition{
					{Name: "prompt", Description: "What to ask the agent.", Required: true},
				},
				Permissions: text,
			},
			{
				Name:        "ping",
				Description: "Check that the bridge is alive.",
				Permissions: text,
			},
		},
		AutonomousConfig: &AutonomousConfig{Permissions: text},
	}
}
