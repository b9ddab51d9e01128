package pushnotification

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTopicName(t *testing.T) {
	assert.Equal(t, "augsburg-de-news", TopicName("augsburg", "de", "news"))
	assert.Equal(t, "augsburg-ar-events", TopicName("augsburg", "ar", "events"))
}
