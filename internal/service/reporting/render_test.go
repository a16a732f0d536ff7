package reporting

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/aquafarm/internal/domain/models"
)

func TestRenderIsSelfContained(t *testing.T) {
	r, err := NewRenderer("fr")
	require.NoError(t, err)

	report, err := NewComposer(testEngine(), "fr").Compose(context.Background(), models.PeriodWeekly, at(2024, 3, 13), weekSnapshot())
	require.NoError(t, err)

	html, err := r.Render(report, time.Date(2024, 3, 18, 6, 30, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(html, "<!DOCTYPE html>"))
	assert.Contains(t, html, `<html lang="fr">`)
	assert.Contains(t, html, "<style>")
	assert.Contains(t, html, "Rapport hebdomadaire du 11/03/2024 au 17/03/2024")
	assert.Contains(t, html, "Période du 11/03/2024 au 17/03/2024")
	assert.Contains(t, html, "généré le 18/03/2024 à 06:30")
	assert.Contains(t, html, "Performance par cage")
	assert.Contains(t, html, "Recommandations")
	assert.NotContains(t, html, "<link")
	assert.NotContains(t, html, "<script")
}

func TestRenderEscapesContent(t *testing.T) {
	r, err := NewRenderer("fr")
	require.NoError(t, err)

	report := models.Report{
		Title:           "Rapport <test>",
		PeriodStart:     time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC),
		PeriodEnd:       time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
		Tables:          []models.ReportTable{{Title: "Vide", Columns: []string{"Cage"}}},
		Recommendations: []string{"<script>alert(1)</script>"},
	}

	html, err := r.Render(report, report.PeriodEnd)
	require.NoError(t, err)

	assert.Contains(t, html, "Rapport &lt;test&gt;")
	assert.Contains(t, html, "&lt;script&gt;")
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "Aucune donnée sur la période.")
}

func TestRenderIsDeterministic(t *testing.T) {
	r, err := NewRenderer("fr")
	require.NoError(t, err)
	c := NewComposer(testEngine(), "fr")
	generated := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)

	var outputs []string
	for i := 0; i < 2; i++ {
		report, err := c.Compose(context.Background(), models.PeriodQuarterly, at(2024, 3, 31), cycleSnapshot())
		require.NoError(t, err)
		html, err := r.Render(report, generated)
		require.NoError(t, err)
		outputs = append(outputs, html)
	}

	assert.Equal(t, outputs[0], outputs[1])
}
