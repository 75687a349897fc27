package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInfraAuthorization(t *testing.T) {
	t.Parallel()

	gate := NewGate([]string{"100", "200"}, nil)

	assert.True(t, gate.IsInfraAuthorized("100"))
	assert.True(t, gate.IsInfraAuthorized("200"))
	assert.False(t, gate.IsInfraAuthorized("300"))
	assert.False(t, gate.IsInfraAuthorized(""))
}

func TestEmptyInfraListDeniesEveryone(t *testing.T) {
	t.Parallel()

	gate := NewGate(nil, nil)
	assert.False(t, gate.IsInfraAuthorized("100"))
}

func TestBoketsuAuthorization(t *testing.T) {
	t.Parallel()

	gate := NewGate(nil, []string{"716263398886604830"})
	assert.True(t, gate.IsBoketsuAuthorized("716263398886604830"))
	assert.False(t, gate.IsBoketsuAuthorized("100"))

	// 未配置白名单时不限制
	open := NewGate(nil, nil)
	assert.True(t, open.IsBoketsuAuthorized("100"))
}
