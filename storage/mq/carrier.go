package mq

import (
	amqp "github.com/rabbitmq/amqp091-go"
)

// HeaderCarrier 让 otel propagator 读写 AMQP 消息头
type HeaderCarrier amqp.Table

func (h HeaderCarrier) Get(key string) string {
	v, ok := h[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

func (h HeaderCarrier) Set(key, value string) {
	h[key] = value
}

func (h HeaderCarrier) Keys() []string {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	return keys
}
