package prose

import (
	"context"
	"fmt"
	"strings"

	"github.com/nyashahama/fluir-backend/internal/recommend"
)

var templates = [3]string{
	groupImediata: "Como prioridades imediatas, recomenda-se concentrar esforcos nas seguintes frentes: %s. " +
		"Essas intervencoes visam conter riscos mais urgentes e criar condicoes minimas de seguranca " +
		"psicologica e organizacao do trabalho.",
	groupCurto: "No curto prazo, sugere-se aprofundar as iniciativas voltadas a %s, estruturando planos " +
		"de acao claros, com responsabilidades, prazos e indicadores de acompanhamento.",
	groupMedio: "Em uma perspectiva de medio prazo, e importante consolidar uma agenda de desenvolvimento " +
		"organizacional focada em %s, de forma a sustentar as mudancas e fortalecer a cultura " +
		"da empresa ao longo do tempo.",
}

type templateWriter struct{}

// Template returns the deterministic Writer. It never returns an error.
func Template() Writer { return templateWriter{} }

func (templateWriter) Write(_ context.Context, recs []recommend.Recommendation) (Prose, error) {
	g := group(recs)
	var out [3]string
	for k, items := range g {
		parts := make([]string, 0, len(items))
		for _, r := range items {
			title := strings.TrimSpace(r.Title)
			desc := strings.TrimSpace(r.Description)
			switch {
			case title != "" && desc != "":
				parts = append(parts, strings.ToLower(title)+": "+desc)
			case title != "":
				parts = append(parts, strings.ToLower(title))
			case desc != "":
				parts = append(parts, desc)
			}
		}
		if len(parts) == 0 {
			continue
		}
		out[k] = fmt.Sprintf(templates[k], strings.Join(parts, "; "))
	}
	return Prose{Imediata: out[groupImediata], CurtoPrazo: out[groupCurto], MedioPrazo: out[groupMedio]}, nil
}
