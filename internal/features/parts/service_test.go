package parts

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fictionhub/internal/common"
)

func TestValidateReorderOK(t *testing.T) {
	existing := []int64{10, 20, 30}
	orders := map[int64]int{10: 3, 20: 1, 30: 2}
	assert.NoError(t, ValidateReorder(existing, orders))
}

func TestValidateReorderIdentity(t *testing.T) {
	existing := []int64{10, 20}
	orders := map[int64]int{10: 1, 20: 2}
	assert.NoError(t, ValidateReorder(existing, orders))
}

func TestValidateReorderMissingPart(t *testing.T) {
	existing := []int64{10, 20, 30}
	orders := map[int64]int{10: 1, 20: 2}
	assert.ErrorIs(t, ValidateReorder(existing, orders), common.ErrBadPartOrder)
}

func TestValidateReorderUnknownPart(t *testing.T) {
	existing := []int64{10, 20}
	orders := map[int64]int{10: 1, 99: 2}
	assert.ErrorIs(t, ValidateReorder(existing, orders), common.ErrBadPartOrder)
}

func TestValidateReorderDuplicateNumber(t *testing.T) {
	existing := []int64{10, 20}
	orders := map[int64]int{10: 1, 20: 1}
	assert.ErrorIs(t, ValidateReorder(existing, orders), common.ErrBadPartOrder)
}

func TestValidateReorderOutOfRange(t *testing.T) {
	existing := []int64{10, 20}

	assert.ErrorIs(t, ValidateReorder(existing, map[int64]int{10: 0, 20: 1}), common.ErrBadPartOrder)
	assert.ErrorIs(t, ValidateReorder(existing, map[int64]int{10: 1, 20: 3}), common.ErrBadPartOrder)
}

func TestValidateReorderEmpty(t *testing.T) {
	assert.NoError(t, ValidateReorder(nil, map[int64]int{}))
}
