package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/goran-ethernal/StateIndexor/internal/logger"
	"github.com/goran-ethernal/StateIndexor/internal/testutil"
	pkgconfig "github.com/goran-ethernal/StateIndexor/pkg/config"
	"github.com/stretchr/testify/require"
)

func TestPrintStatus(t *testing.T) {
	t.Parallel()

	s := testutil.NewStore(t, 10)

	var out bytes.Buffer
	require.NoError(t, printStatus(&out, s, []pkgconfig.ConsumerConfig{{Name: "meta"}}))
	require.Regexp(t, `indexed height\s+-`, out.String())
	require.Regexp(t, `undo tip\s+-`, out.String())

	testutil.CommitBlock(t, s, 1, "h1", map[string]string{"greeting": "hi"})
	testutil.CommitBlock(t, s, 2, "h2", map[string]string{"greeting": "yo"})

	out.Reset()
	require.NoError(t, printStatus(&out, s, []pkgconfig.ConsumerConfig{{Name: "meta"}}))
	require.Regexp(t, `indexed height\s+2\n`, out.String())
	require.Regexp(t, `consumer meta\s+-\n`, out.String())
	require.Regexp(t, `undo oldest\s+1\n`, out.String())
	require.Regexp(t, `undo tip\s+2\n`, out.String())
	require.Regexp(t, `undo window\s+10\n`, out.String())
}

func TestPrintUndo(t *testing.T) {
	t.Parallel()

	s := testutil.NewStore(t, 10)
	testutil.CommitBlock(t, s, 1, "h1", map[string]string{"greeting": "hi"})
	testutil.CommitBlock(t, s, 2, "h2", map[string]string{"greeting": "yo"})

	var out bytes.Buffer
	require.NoError(t, printUndo(&out, s, 2))
	require.Contains(t, out.String(), "height 2 hash h2")
	require.Regexp(t, `0\s+put\s+greeting\s+6869\n`, out.String())

	out.Reset()
	require.NoError(t, printUndo(&out, s, 1))
	require.Regexp(t, `0\s+put\s+greeting\s+<absent>\n`, out.String())

	require.ErrorContains(t, printUndo(&out, s, 7), "not retained")
}

func TestConsumersCommand(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	consumersCmd.SetOut(&out)
	consumersCmd.Run(consumersCmd, nil)

	for _, d := range newRegistry(logger.NewNopLogger()).List() {
		require.Contains(t, out.String(), d.Type)
	}
	require.Contains(t, out.String(), "foundational")
}

func TestSchemaCommand(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	schemaCmd.SetOut(&out)
	require.NoError(t, schemaCmd.RunE(schemaCmd, nil))

	var schema map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &schema))
	require.Equal(t, "StateIndexor configuration", schema["title"])
}
