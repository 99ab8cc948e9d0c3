// Package confirmation — одноразовые коды подтверждения почты.
// Коды живут в памяти процесса и истекают сами; база им не нужна.
package confirmation

import (
	"sync"
	"time"
)

type entry struct {
	code      string
	expiresAt time.Time
}

// Store — потокобезопасное хранилище кодов по адресу почты.
type Store struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

// NewStore создаёт хранилище с заданным временем жизни кода.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		entries: make(map[string]entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Put записывает код для адреса, затирая предыдущий.
func (s *Store) Put(email, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[email] = entry{code: code, expiresAt: s.now().Add(s.ttl)}
}

// Verify проверяет код и при успехе сжигает его: повторное
// подтверждение тем же кодом не пройдёт.
func (s *Store) Verify(email, code string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[email]
	if !ok || s.now().After(e.expiresAt) || e.code != code {
		return false
	}
	delete(s.entries, email)
	return true
}

// Sweep удаляет истёкшие коды и возвращает число удалённых.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	now := s.now()
	for email, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, email)
			removed++
		}
	}
	return removed
}

// Len возвращает число живых записей (вместе с истёкшими до уборки).
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
