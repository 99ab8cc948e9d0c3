package confirmation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVerifyBurnsCode(t *testing.T) {
	s := NewStore(5 * time.Minute)
	s.Put("a@example.com", "123456")

	assert.True(t, s.Verify("a@example.com", "123456"))
	// Код одноразовый.
	assert.False(t, s.Verify("a@example.com", "123456"))
}

func TestVerifyWrongCode(t *testing.T) {
	s := NewStore(5 * time.Minute)
	s.Put("a@example.com", "123456")

	assert.False(t, s.Verify("a@example.com", "000000"))
	// Неверная попытка код не сжигает.
	assert.True(t, s.Verify("a@example.com", "123456"))
}

func TestVerifyUnknownEmail(t *testing.T) {
	s := NewStore(5 * time.Minute)
	assert.False(t, s.Verify("nobody@example.com", "123456"))
}

func TestPutOverwrites(t *testing.T) {
	s := NewStore(5 * time.Minute)
	s.Put("a@example.com", "111111")
	s.Put("a@example.com", "222222")

	assert.False(t, s.Verify("a@example.com", "111111"))
	assert.True(t, s.Verify("a@example.com", "222222"))
}

func TestExpiry(t *testing.T) {
	now := time.Now()
	s := NewStore(5 * time.Minute)
	s.now = func() time.Time { return now }

	s.Put("a@example.com", "123456")

	now = now.Add(5*time.Minute + time.Second)
	assert.False(t, s.Verify("a@example.com", "123456"))
}

func TestSweep(t *testing.T) {
	now := time.Now()
	s := NewStore(5 * time.Minute)
	s.now = func() time.Time { return now }

	s.Put("old@example.com", "111111")
	now = now.Add(4 * time.Minute)
	s.Put("fresh@example.com", "222222")

	now = now.Add(2 * time.Minute) // old истёк, fresh ещё жив
	assert.Equal(t, 1, s.Sweep())
	assert.Equal(t, 1, s.Len())
	assert.True(t, s.Verify("fresh@example.com", "222222"))
}
