package mqtt

import (
	"fmt"
	"strings"
)

// TopicPrefix is the root of every structdxf topic.
const TopicPrefix = "structdxf"

// Topics provides builders for structdxf MQTT topics.
//
//	topic := mqtt.Topics{}.ImportCompleted("portal-frame")
//	// Returns: "structdxf/import/portal-frame/completed"
type Topics struct{}

// ImportCompleted returns the topic for a finished import of the named model.
func (Topics) ImportCompleted(model string) string {
	return fmt.Sprintf("%s/import/%s/completed", TopicPrefix, topicSegment(model))
}

// ImportFailed returns the topic for an import of the named model that was aborted.
func (Topics) ImportFailed(model string) string {
	return fmt.Sprintf("%s/import/%s/failed", TopicPrefix, topicSegment(model))
}

// AllImports returns a wildcard subscription for every import event.
func (Topics) AllImports() string {
	return TopicPrefix + "/import/#"
}

// SystemStatus returns the topic for importer online/offline status.
func (Topics) SystemStatus() string {
	return TopicPrefix + "/system/status"
}

// topicSegment makes a model name safe to use as one topic level.
// Separators and wildcards become underscores; an empty name becomes "unnamed".
func topicSegment(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "unnamed"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '+', '#', ' ':
			return '_'
		}
		return r
	}, name)
}
