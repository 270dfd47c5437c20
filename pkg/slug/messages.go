package slug

import (
	_ "embed"
	"log"

	"gopkg.in/yaml.v3"
)

//go:embed messages.yaml
var messagesYAML []byte

// Message holds the human-readable explanation for a slug error
type Message struct {
	Primary   string `yaml:"primary"`
	Secondary string `yaml:"secondary"`
}

// messages maps each slug error to its display copy. Kept as embedded data so
// the copy can change without touching validation logic
var messages map[Error]Message

func init() {
	if err := yaml.Unmarshal(messagesYAML, &messages); err != nil {
		log.Fatalf("[SLUG]: Failed to parse error messages: %v", err)
	}
}

// MessageFor returns the display copy for a slug error. The second return is
// false for unknown errors
func MessageFor(e Error) (Message, bool) {
	m, ok := messages[e]
	return m, ok
}
