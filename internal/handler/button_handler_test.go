package handler

import (
	"context"
	"testing"

	"chihuyufan-go/internal/action"
	"chihuyufan-go/internal/model"
	"chihuyufan-go/internal/service"
	"chihuyufan-go/pkg/ptero"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func button(actor, customID string) model.ButtonEvent {
	return model.ButtonEvent{
		ActorID:   actor,
		ActorName: "tester",
		CustomID:  customID,
		ChannelID: "chan",
		MessageID: "msg",
	}
}

func TestDeniedLifecycleButtonShortCircuits(t *testing.T) {
	f := newFixture([]string{"admin"}, nil)

	reply := f.handler.HandleButton(context.Background(),
		button("intruder", action.Encode(action.TagStartServer, "lobby")))

	require.NotNil(t, reply)
	assert.True(t, reply.Ephemeral)
	assert.Empty(t, f.panel.executed)
}

func TestLifecycleButtonResolvesTargetFromCustomID(t *testing.T) {
	f := newFixture([]string{"admin"}, nil)

	f.handler.HandleButton(context.Background(),
		button("admin", action.Encode(action.TagStopServer, "survival-2")))

	assert.Equal(t, []service.Operation{service.OpStop}, f.panel.executed)
	// 名字里的分隔符经转义后原样还原
	assert.Equal(t, "survival-2", f.panel.lastTarget)
}

func TestRefreshButtonUpdatesOriginalMessage(t *testing.T) {
	f := newFixture(nil, nil)
	f.panel.nodeInfo = &service.NodeOverview{Node: ptero.Node{Name: "node-1"}}

	reply := f.handler.HandleButton(context.Background(),
		button("anyone", action.Encode(action.TagRefreshNodeInfo, "node-1")))

	require.NotNil(t, reply)
	assert.True(t, reply.Update)
	assert.Equal(t, []string{"node-1"}, f.panel.infoQueries)
}

func TestSpreadButtonSplitsReactors(t *testing.T) {
	f := newFixture(nil, nil)
	f.gw.reactors = []string{"a", "b", "c", "d", "e"}

	reply := f.handler.HandleButton(context.Background(), button("anyone", spreadCustomID()))

	require.NotNil(t, reply)
	assert.Contains(t, reply.Content, "`Attacker`")
	assert.Contains(t, reply.Content, "`Defender`")
	for _, member := range f.gw.reactors {
		assert.Contains(t, reply.Content, member)
	}
}

func TestUnknownButtonIsIgnored(t *testing.T) {
	f := newFixture(nil, nil)
	assert.Nil(t, f.handler.HandleButton(context.Background(), button("anyone", "mystery-button")))
	assert.Empty(t, f.panel.executed)
}
