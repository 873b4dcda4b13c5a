package predator

import (
	"sync"

	"github.com/rs/zerolog/log"
)

const (
	Version1 = 1
)

var (
	registry = make(map[int]Client)
	mu       sync.Mutex
)

// InitClient builds the client for version once and returns it on every later call
func InitClient(version int, conf *Config) Client {
	mu.Lock()
	defer mu.Unlock()
	if client, ok := registry[version]; ok {
		return client
	}
	switch version {
	case Version1:
		registry[version] = NewClientV1(conf)
	default:
		log.Panic().Msgf("Predator client version %d not supported", version)
	}
	return registry[version]
}
