package action

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		tag  Tag
		args []string
	}{
		{name: "no args", tag: TagValorantSpread},
		{name: "single arg", tag: TagStartServer, args: []string{"lobby"}},
		{name: "two args", tag: TagSendCommand, args: []string{"lobby", "say hello"}},
		{name: "arg with delimiter", tag: TagRefreshServerInfo, args: []string{"survival-2"}},
		{name: "arg with percent", tag: TagRefreshNodeInfo, args: []string{"node%1"}},
		{name: "arg with both", tag: TagStopServer, args: []string{"a-%2D-b"}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			tag, args := Decode(Encode(tc.tag, tc.args...))
			assert.Equal(t, tc.tag, tag)
			if len(tc.args) == 0 {
				assert.Empty(t, args)
			} else {
				assert.Equal(t, tc.args, args)
			}
		})
	}
}

func TestDecodeUnknownTag(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "nonsense", "nonsense-arg", "-leading"} {
		tag, args := Decode(raw)
		assert.Equal(t, TagUnknown, tag, "input %q", raw)
		assert.Nil(t, args)
	}
}

func TestEncodeKeepsPlainNamesReadable(t *testing.T) {
	t.Parallel()

	// 不含分隔符的名字应保持原样可读，便于在日志里排查
	assert.Equal(t, "upserver-lobby", Encode(TagStartServer, "lobby"))
}
