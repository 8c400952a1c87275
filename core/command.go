package core

import (
	"errors"
	"sync"
)

// MessageHandler decodes and handles one message body.
// The handler is responsible for decoding its own arguments from the data pointer
type MessageHandler func(data *[]byte) error

// Message represents one entry of the wire dictionary
type Message struct {
	ID      uint16
	Name    string
	Format  string // Format string for dictionary (e.g., "oid=%c button=%c")
	Handler MessageHandler
}

var ErrUnknownMessage = errors.New("unknown message id")

// MessageRegistry assigns ids to messages in registration order.
// Both ends of a link register the same set in the same order, so ids agree
// without exchanging a dictionary.
type MessageRegistry struct {
	mu         sync.RWMutex
	messages   map[uint16]*Message
	nameToID   map[string]uint16
	nextID     uint16
	dictionary string
}

// NewMessageRegistry creates an empty registry
func NewMessageRegistry() *MessageRegistry {
	return &MessageRegistry{
		messages: make(map[uint16]*Message),
		nameToID: make(map[string]uint16),
	}
}

// Register adds a message to the registry.
// Registering a name twice returns the existing id.
func (r *MessageRegistry) Register(name string, format string, handler MessageHandler) uint16 {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, exists := r.nameToID[name]; exists {
		return id
	}

	id := r.nextID
	r.nextID++

	r.messages[id] = &Message{
		ID:      id,
		Name:    name,
		Format:  format,
		Handler: handler,
	}
	r.nameToID[name] = id

	r.rebuildDictionary()

	return id
}

// SetHandler attaches a handler to an already registered message.
func (r *MessageRegistry) SetHandler(name string, handler MessageHandler) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.nameToID[name]
	if !ok {
		return false
	}
	r.messages[id].Handler = handler
	return true
}

// Get retrieves a message by ID
func (r *MessageRegistry) Get(id uint16) (*Message, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	msg, ok := r.messages[id]
	return msg, ok
}

// GetByName retrieves a message by name
func (r *MessageRegistry) GetByName(name string) (*Message, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.nameToID[name]
	if !ok {
		return nil, false
	}
	return r.messages[id], true
}

// Count returns the number of registered messages
func (r *MessageRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.messages)
}

// Dispatch calls the handler for a decoded message id.
// Messages without a handler are consumed silently.
func (r *MessageRegistry) Dispatch(id uint16, data *[]byte) error {
	msg, ok := r.Get(id)
	if !ok {
		return ErrUnknownMessage
	}
	if msg.Handler == nil {
		return nil
	}
	return msg.Handler(data)
}

// Dictionary returns one "name format" line per message, in id order
func (r *MessageRegistry) Dictionary() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.dictionary
}

// rebuildDictionary rebuilds the dictionary string
// Must be called with lock held
func (r *MessageRegistry) rebuildDictionary() {
	dict := ""
	for i := uint16(0); i < r.nextID; i++ {
		if msg, ok := r.messages[i]; ok {
			if msg.Format != "" {
				dict += msg.Name + " " + msg.Format + "\n"
			} else {
				dict += msg.Name + "\n"
			}
		}
	}
	r.dictionary = dict
}
