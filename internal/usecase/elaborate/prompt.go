package elaborate

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/kailas-cloud/thesisrec/internal/domain"
	"github.com/kailas-cloud/thesisrec/internal/domain/recommendation"
)

const systemPrompt = "Tu es un directeur de mémoire qui aide des étudiants ingénieurs " +
	"à choisir un sujet de fin d'études. Réponds en français, de façon concise et structurée."

var templates = map[Kind]*template.Template{
	KindAnalysis: template.Must(template.New("analysis").Parse(`REQUÊTE DE L'ÉTUDIANT :
{{.Query}}

SUJETS EXISTANTS TROUVÉS (par similarité, score 0-1) :
{{range .Subjects}}{{.Rank}}. [{{.Program}}] {{.Title}} | score {{.Score}} | mots-clés : {{.Tags}}
{{end}}
INSTRUCTIONS :
1. Analyse uniquement les sujets ci-dessus.
2. Pour chaque sujet : pertinence pour la requête en 1-2 phrases, thèmes principaux.
3. Termine par les thèmes récurrents et deux pistes d'inspiration pour un sujet original.`)),

	KindIdeas: template.Must(template.New("ideas").Parse(`REQUÊTE DE L'ÉTUDIANT :
{{.Query}}

SUJETS EXISTANTS POUR INSPIRATION (NE PAS COPIER) :
{{range .Subjects}}{{.Rank}}. [{{.Program}}] {{.Title}} | mots-clés : {{.Tags}}
{{end}}
INSTRUCTIONS :
1. Propose 2 ou 3 sujets nouveaux qui n'existent pas dans la liste.
2. Pour chaque sujet : titre, problématique en une phrase, méthodologie, compétences requises.
3. Termine par le niveau de difficulté et la durée estimée.`)),
}

type promptSubject struct {
	Rank    int
	Program string
	Title   string
	Score   string
	Tags    string
}

func buildPrompt(kind Kind, queryText string, items []recommendation.Item) (domain.Prompt, error) {
	tmpl, ok := templates[kind]
	if !ok {
		return domain.Prompt{}, fmt.Errorf("%w: unknown elaboration kind %q", domain.ErrValidation, kind)
	}

	data := struct {
		Query    string
		Subjects []promptSubject
	}{Query: queryText}
	for i := range items {
		s := items[i].Subject()
		data.Subjects = append(data.Subjects, promptSubject{
			Rank:    i + 1,
			Program: s.Program().String(),
			Title:   s.Title(),
			Score:   fmt.Sprintf("%.3f", items[i].Score()),
			Tags:    strings.Join(s.Tags(), ", "),
		})
	}

	var b strings.Builder
	if err := tmpl.Execute(&b, data); err != nil {
		return domain.Prompt{}, fmt.Errorf("render %s prompt: %w", kind, err)
	}
	return domain.Prompt{System: systemPrompt, User: b.String()}, nil
}
