package dashboard

import (
	"html/template"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkReadyRequiresAllElements(t *testing.T) {
	d := NewDocument()
	d.Register(SignalsContainer, "")

	err := d.MarkReady()
	require.Error(t, err)
	assert.Contains(t, err.Error(), AuditContainer)
	assert.False(t, d.IsReady())

	full := NewDashboardDocument()
	require.NoError(t, full.MarkReady())
	require.NoError(t, full.MarkReady())
	assert.True(t, full.IsReady())

	select {
	case <-full.Ready():
	default:
		t.Fatal("expected ready channel to be closed")
	}
}

func TestSetHTMLUnknownElement(t *testing.T) {
	d := NewDocument()
	assert.ErrorIs(t, d.SetHTML("nope", "x"), ErrUnknownElement)
}

func TestSetTextEscapes(t *testing.T) {
	d := NewDashboardDocument()
	require.NoError(t, d.SetText(LastUpdate, "<b>"))

	got, ok := d.Get(LastUpdate)
	require.True(t, ok)
	assert.Equal(t, template.HTML("&lt;b&gt;"), got)
}

func TestSnapshotIsACopy(t *testing.T) {
	d := NewDashboardDocument()
	snap := d.Snapshot()
	snap.Elements[TotalSignals] = "mutated"

	got, _ := d.Get(TotalSignals)
	assert.Equal(t, template.HTML("-"), got)

	require.NoError(t, d.SetText(TotalSignals, "1"))
	assert.Greater(t, d.Snapshot().Version, snap.Version)
}

func TestSetTextsIsOneWrite(t *testing.T) {
	d := NewDashboardDocument()
	before := d.Snapshot().Version

	require.NoError(t, d.SetTexts(map[string]string{TotalSignals: "42", AuditEntries: "<7>"}))
	snap := d.Snapshot()
	assert.Equal(t, before+1, snap.Version)
	assert.Equal(t, template.HTML("42"), snap.Elements[TotalSignals])
	assert.Equal(t, template.HTML("&lt;7&gt;"), snap.Elements[AuditEntries])

	err := d.SetTexts(map[string]string{PIIAnonymized: "1", "missing": "x"})
	require.ErrorIs(t, err, ErrUnknownElement)
	got, _ := d.Get(PIIAnonymized)
	assert.Equal(t, template.HTML("-"), got)
	assert.Equal(t, snap.Version, d.Snapshot().Version)
}
