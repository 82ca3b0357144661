package deployinstance_test

import (
	"testing"

	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/apperr"
	"github.com/germangrecoventura/unq-pds-app-university-api-sub001/internal/deployinstance"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeployInstance(t *testing.T) {
	d, err := deployinstance.NewDeployInstance("Railway", "https://railway.app/x", "production deploy")
	require.NoError(t, err)
	assert.Equal(t, "https://railway.app/x", d.URL)

	tests := []struct {
		name      string
		depName   string
		url       string
		comment   string
		wantField string
	}{
		{"RelativeURL", "Railway", "railway.app/x", "ok", "url"},
		{"BlankName", " ", "https://railway.app/x", "ok", "name"},
		{"DigitsInName", "Railway2", "https://railway.app/x", "ok", "name"},
		{"BlankComment", "Railway", "https://railway.app/x", "  ", "comment"},
		{"MarkupOnlyComment", "Railway", "https://railway.app/x", "<script>alert(1)</script>", "comment"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := deployinstance.NewDeployInstance(tt.depName, tt.url, tt.comment)

			var verr *apperr.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.wantField)
		})
	}
}

func TestCommentIsSanitized(t *testing.T) {
	d, err := deployinstance.NewDeployInstance("Render", "https://render.com/app", " <b>ready</b> for demo ")
	require.NoError(t, err)
	assert.Equal(t, "ready for demo", d.Comment)

	require.NoError(t, d.SetComment(`<a href="javascript:x()">link</a>`))
	assert.Equal(t, "link", d.Comment)
}

func TestCommentKeepsPlainText(t *testing.T) {
	d, err := deployinstance.NewDeployInstance("Prod", "https://railway.app/x", "R&D build, a < b")
	require.NoError(t, err)
	assert.Equal(t, "R&D build, a < b", d.Comment)

	require.NoError(t, d.SetComment(d.Comment))
	assert.Equal(t, "R&D build, a < b", d.Comment)

	require.NoError(t, d.SetComment(`"quoted" & <i>styled</i>`))
	assert.Equal(t, `"quoted" & styled`, d.Comment)
}

func TestDeployInstanceSetters(t *testing.T) {
	d, err := deployinstance.NewDeployInstance("Render", "https://render.com/app", "demo")
	require.NoError(t, err)

	assert.Error(t, d.SetURL("render.com"))
	assert.Equal(t, "https://render.com/app", d.URL)
	require.NoError(t, d.SetName("Fly Io"))
	assert.Equal(t, "Fly Io", d.Name)
}
