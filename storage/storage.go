package storage

import (
	"errors"
)

type storageType = string

const (
	TypeInMemory = "inmemory"
	TypeFile     = "file"
)

var ErrSessionNotFound = errors.New("session not found")

// Storage keeps browser sessions between runs, one per host.
type Storage interface {
	GetSession(host string) (*Session, error)
	SaveSession(session *Session) error
	DeleteSession(host string) error
}

type Config struct {
	Type            storageType
	FileStoragePath string
}

func NewStorage(config Config) (Storage, error) {
	switch config.Type {
	case TypeInMemory, "":
		return NewInMemory(), nil
	case TypeFile:
		return NewFile(config.FileStoragePath)
	default:
		return nil, errors.New("Unknown storage type: " + config.Type)
	}
}
