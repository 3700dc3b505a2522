package config

import (
	"testing"
	"time"

	"github.com/cloudwego/hertz/pkg/common/test/assert"
)

func TestValidateRequiresJWTSecret(t *testing.T) {
	c := Config{WellnessTimezone: "UTC", WellnessRollingDays: 3, WellnessMaxRangeDays: 365}
	assert.NotNil(t, c.Validate())

	c.JWTSecret = "secret"
	assert.Nil(t, c.Validate())
}

func TestValidateRejectsUnknownTimezone(t *testing.T) {
	c := Config{JWTSecret: "secret", WellnessTimezone: "Mars/Olympus", WellnessRollingDays: 3, WellnessMaxRangeDays: 365}
	assert.NotNil(t, c.Validate())
}

func TestLocationFallsBackToUTC(t *testing.T) {
	c := Config{WellnessTimezone: "Mars/Olympus"}
	assert.DeepEqual(t, time.UTC, c.Location())

	c = Config{WellnessTimezone: "Asia/Shanghai"}
	assert.DeepEqual(t, "Asia/Shanghai", c.Location().String())
}

func TestRabbitMQURL(t *testing.T) {
	c := Config{RabbitMQUsername: "u", RabbitMQPassword: "p", RabbitMQAddr: "mq", RabbitMQPort: "5672", RabbitMQVhost: "/"}
	assert.DeepEqual(t, "amqp://u:p@mq:5672/", c.GetRabbitMQURL())
}
