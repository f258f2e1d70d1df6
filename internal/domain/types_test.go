package domain

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPage_Clamping(t *testing.T) {
	assert.Equal(t, Page{Number: 1, Size: 20}, NewPage(PageRequest{}))
	assert.Equal(t, Page{Number: 1, Size: 1}, NewPage(PageRequest{Page: intPtr(0), PageSize: intPtr(0)}))
	assert.Equal(t, Page{Number: 1, Size: 50}, NewPage(PageRequest{Page: intPtr(-4), PageSize: intPtr(500)}))
	assert.Equal(t, Page{Number: 3, Size: 10}, NewPage(PageRequest{Page: intPtr(3), PageSize: intPtr(10)}))
}

func TestPageMeta(t *testing.T) {
	p := NewPage(PageRequest{Page: intPtr(2), PageSize: intPtr(10)})
	assert.Equal(t, 10, p.Skip())
	assert.Equal(t, 10, p.Take())

	m := p.Meta(25, 10)
	assert.Equal(t, PageMeta{
		Total: 25, Page: 2, PerPage: 10, LastPage: 3, From: 11, To: 20,
		HasNextPage: true, HasPreviousPage: true, Paginated: true,
	}, m)
}

func TestPageMeta_EmptyTrailingPage(t *testing.T) {
	m := NewPage(PageRequest{Page: intPtr(5), PageSize: intPtr(10)}).Meta(25, 0)
	assert.Equal(t, 41, m.From)
	assert.Equal(t, 40, m.To)
	assert.Less(t, m.To, m.From)
	assert.False(t, m.HasNextPage)
}

func TestNewPage_HugePageNumber(t *testing.T) {
	for _, size := range []int{1, 25, 50} {
		p := NewPage(PageRequest{Page: intPtr(math.MaxInt / 25), PageSize: intPtr(size)})
		assert.Equal(t, MaxPage, p.Number)
		assert.GreaterOrEqual(t, p.Skip(), 0)

		m := p.Meta(3, 0)
		assert.Positive(t, m.From)
		assert.GreaterOrEqual(t, m.To, 0)
		assert.Equal(t, m.From-1, m.To)
		assert.False(t, m.HasNextPage)
	}
}

func TestPageMeta_NoRows(t *testing.T) {
	m := NewPage(PageRequest{}).Meta(0, 0)
	assert.Equal(t, 0, m.LastPage)
	assert.False(t, m.HasNextPage)
	assert.False(t, m.HasPreviousPage)
}

func TestNewPageEnvelope_NilRows(t *testing.T) {
	env := NewPageEnvelope[string](NewPage(PageRequest{}), 0, nil, "ok")
	assert.NotNil(t, env.Data)
	assert.Empty(t, env.Data)
	assert.Equal(t, "ok", env.Message)
}

func TestErrorClassification(t *testing.T) {
	nf := fmt.Errorf("wrap: %w", NotFound("project not found"))
	assert.True(t, IsValidation(nf))
	assert.ErrorIs(t, nf, ErrNotFound)
	assert.False(t, IsDatabase(nf))

	db := DatabaseError{Op: "list", Err: errors.New("timeout")}
	assert.Equal(t, "list: timeout", db.Error())
	assert.True(t, IsDatabase(fmt.Errorf("x: %w", db)))
	assert.True(t, IsUnauthorized(UnauthorizedError{}))
	assert.Equal(t, "unauthorized", UnauthorizedError{}.Error())
	assert.Equal(t, "invalid name", ValidationError{Field: "name"}.Error())
}

func intPtr(v int) *int { return &v }
