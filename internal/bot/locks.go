package bot

import "sync"

// chatLocks serializes update handling per chat id: updates for
// different chats run concurrently, updates for the same chat run one at
// a time so the session cookie jar and wizard state are never mutated by
// two requests at once.
type chatLocks struct {
	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func newChatLocks() *chatLocks {
	return &chatLocks{locks: make(map[int64]*sync.Mutex)}
}

func (c *chatLocks) get(chatID int64) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()

	lock, ok := c.locks[chatID]
	if !ok {
		lock = &sync.Mutex{}
		c.locks[chatID] = lock
	}
	return lock
}

func (c *chatLocks) Lock(chatID int64) {
	c.get(chatID).Lock()
}

func (c *chatLocks) Unlock(chatID int64) {
	c.get(chatID).Unlock()
}
