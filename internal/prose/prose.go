// Package prose turns structured recommendations into consultative running
// text grouped by urgency. LLM-backed writers produce the text when
// configured; a deterministic template covers every other case so the admin
// dashboard never shows an empty section because of a provider outage.
package prose

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/nyashahama/fluir-backend/internal/recommend"
)

// Prose is the rendered text, one paragraph block per urgency group.
type Prose struct {
	Imediata   string `json:"imediata"`
	CurtoPrazo string `json:"curto_prazo"`
	MedioPrazo string `json:"medio_prazo"`
}

// Writer is the interface the dashboard uses to render recommendations.
// Implementations must be safe to call concurrently.
type Writer interface {
	Write(ctx context.Context, recs []recommend.Recommendation) (Prose, error)
}

// ─── GROUPING ─────────────────────────────────────────────────────────────────

type groupKey int

const (
	groupImediata groupKey = iota
	groupCurto
	groupMedio
)

type grouped [3][]recommend.Recommendation

func (g grouped) empty() bool {
	return len(g[groupImediata]) == 0 && len(g[groupCurto]) == 0 && len(g[groupMedio]) == 0
}

// keyFor maps a stored priority onto a group. Custom recommendations carry
// free-form priorities, so matching is by substring and anything
// unrecognised lands in the medium-term group.
func keyFor(p recommend.Priority) groupKey {
	raw := strings.ToLower(string(p))
	switch {
	case strings.Contains(raw, "imediat"):
		return groupImediata
	case strings.Contains(raw, "curto"):
		return groupCurto
	default:
		return groupMedio
	}
}

func group(recs []recommend.Recommendation) grouped {
	var g grouped
	for _, r := range recs {
		k := keyFor(r.Priority)
		g[k] = append(g[k], r)
	}
	return g
}

// ─── PROMPT ───────────────────────────────────────────────────────────────────

const systemPrompt = `Voce e uma psicologa organizacional da empresa Fluir, especializada em saude mental e clima no trabalho. A seguir, recebera um conjunto de recomendacoes estruturadas, ja analisadas pelo motor da pesquisa, separadas por prazo de aplicacao (imediata, curto prazo, medio prazo).

Seu objetivo e transformar essas recomendacoes em um texto corrido, consultivo, em portugues do Brasil, como se estivesse orientando a lideranca da empresa.
Evite listas numeradas ou marcadores; escreva em paragrafo(s) corrido(s), com tom profissional, acolhedor e objetivo, explicando o porque das acoes e como podem ser implementadas.

IMPORTANTE: responda EXCLUSIVAMENTE em JSON valido, no seguinte formato exato (sem comentarios):
{"imediata": "<texto corrido para acoes imediatas>", "curto_prazo": "<texto corrido para curto prazo>", "medio_prazo": "<texto corrido para medio prazo>"}`

var sectionTitles = [3]string{
	groupImediata: "Acoes de aplicacao imediata",
	groupCurto:    "Acoes de curto prazo",
	groupMedio:    "Acoes de medio prazo",
}

// buildPrompt lists the grouped recommendations in the order the model is
// asked to answer them.
func buildPrompt(g grouped) string {
	var sb strings.Builder
	sb.WriteString("Abaixo estao as recomendacoes estruturadas:\n")
	for k, items := range g {
		fmt.Fprintf(&sb, "\n[%s]\n", sectionTitles[k])
		if len(items) == 0 {
			sb.WriteString("Nenhuma recomendacao especifica para este prazo.\n")
			continue
		}
		for i, r := range items {
			fmt.Fprintf(&sb, "%d. Titulo: %s\n", i+1, r.Title)
			fmt.Fprintf(&sb, "   Descricao: %s\n", r.Description)
		}
	}
	return sb.String()
}

// parseReply decodes the model's JSON answer, tolerating markdown fences.
func parseReply(raw string) (Prose, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimPrefix(raw, "```json")
	raw = strings.TrimPrefix(raw, "```")
	raw = strings.TrimSuffix(raw, "```")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Prose{}, fmt.Errorf("prose: empty reply")
	}

	var p Prose
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return Prose{}, fmt.Errorf("prose: parse reply JSON: %w (raw: %.200s)", err, raw)
	}
	p.Imediata = strings.TrimSpace(p.Imediata)
	p.CurtoPrazo = strings.TrimSpace(p.CurtoPrazo)
	p.MedioPrazo = strings.TrimSpace(p.MedioPrazo)
	return p, nil
}

// ─── RENDER ───────────────────────────────────────────────────────────────────

// Source says which writer produced a rendering.
type Source string

const (
	SourceNone     Source = "none"
	SourceWriter   Source = "writer"
	SourceTemplate Source = "template"
)

// Render produces prose for recs and never fails. With no recommendations it
// returns empty text without calling w; with a nil writer or a writer error
// it falls back to the template.
func Render(ctx context.Context, w Writer, recs []recommend.Recommendation, logger *slog.Logger) (Prose, Source) {
	if group(recs).empty() {
		return Prose{}, SourceNone
	}
	if w == nil {
		p, _ := Template().Write(ctx, recs)
		return p, SourceTemplate
	}

	p, err := w.Write(ctx, recs)
	if err != nil {
		logger.WarnContext(ctx, "prose: writer failed, using template",
			"error", err,
			"recommendations", len(recs),
		)
		p, _ = Template().Write(ctx, recs)
		return p, SourceTemplate
	}
	return p, SourceWriter
}
