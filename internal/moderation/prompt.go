package moderation

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"text/template"
)

var classifyTemplate = template.Must(template.New("classify").Parse(`You moderate posts for a private, hyper-local neighborhood network.
Place the post below in exactly one of three lanes.

POST:
{{.Text}}
{{- if .ImageRef}}

ATTACHED IMAGE: {{.ImageRef}}
{{- end}}

AUTHOR CONTEXT:
- Posts in the last 24h: {{.PostFrequency}}
- Account age (days): {{.AccountAgeDays}}
- Address verified: {{.AddressVerified}}
- Promotional score (heuristic): {{.PromotionalScore}}
- Looks like outside business (heuristic): {{.OutsideBusiness}}
- Looks like neighbor micro-entrepreneur (heuristic): {{.MicroEntrepreneur}}
- Profanity matches: {{.ProfanityHits}}

LANES:
green / allow (the default): recommendations, borrowing and lending, lost pets,
safety notices, events, selling household items, neighbors offering occasional
services ("I do snow shoveling if anyone needs help"), casual chatter, test posts.
yellow / flag: only repeated or structured spam signals, such as 3+ similar
promotional posts in a day, professional marketing copy with booking links, or
strong signs of an outside business posing as a neighbor.
red / block: only unambiguous severe violations: hate speech or slurs, threats
or explicit harassment, scams and phishing, bot spam (crypto, MLM), sexual
content, outside advertising with no neighbor context.

POLICY:
1. Default to allow. A single post is almost never spam.
2. Accounts younger than 7 days get extra leniency.
3. Between allow and flag choose allow; between flag and block choose flag.
4. Neighbor side businesses are fine unless posting 5+ times a day.
5. The heuristics above are hints, not verdicts.

Reply with ONLY a JSON object, no markdown:
{
  "lane": "green" | "yellow" | "red",
  "decision": "allow" | "flag" | "block",
  "confidence": 0-100,
  "reason": "why",
  "categories": ["..."],
  "business_detection": {
    "is_business_related": true | false,
    "is_neighbor_entrepreneur": true | false,
    "is_outside_business": true | false,
    "promotional_score": 0-100
  },
  "user_message": "what to tell the author",
  "revision_suggestion": "how to fix it" | null
}`))

var reanalyzeTemplate = template.Must(template.New("reanalyze").Parse(`Earlier you placed this neighborhood post in the {{.Lane}} lane ({{.Decision}}).

POST:
{{.Text}}

ORIGINAL ANALYSIS:
- Lane: {{.Lane}} ({{.Decision}})
- Reason: {{.Reason}}
- Confidence: {{.Confidence}}%

NEIGHBOR REPORTS ({{.ReportCount}}):
{{.Reports}}

Re-evaluate with this community feedback using the same three lanes
(green/allow, yellow/flag, red/block).
- Several neighbors reporting the same post is a strong signal: they may see
  local context or repeated behavior you cannot.
- It is not an absolute signal. If the reports look coordinated, retaliatory
  or malicious, discount them and say so in the reason.
- Between two lanes, prefer the more permissive one.

Reply with ONLY a JSON object, no markdown:
{
  "lane": "green" | "yellow" | "red",
  "decision": "allow" | "flag" | "block",
  "confidence": 0-100,
  "reason": "updated reasoning",
  "categories": ["..."],
  "changed_decision": true | false,
  "learning_note": "what this case teaches for similar posts",
  "action_taken": "Post remains visible" | "Post hidden pending review" | "Post removed"
}`))

func buildClassifyPrompt(req ClassifyRequest) (string, error) {
	data := struct {
		Text              string
		ImageRef          string
		PostFrequency     int
		AccountAgeDays    int
		AddressVerified   bool
		PromotionalScore  int
		OutsideBusiness   bool
		MicroEntrepreneur bool
		ProfanityHits     int
	}{
		Text:              req.Text,
		PostFrequency:     req.User.PostFrequency,
		AccountAgeDays:    int(math.Floor(req.User.AccountAgeDays)),
		AddressVerified:   req.User.AddressVerified,
		PromotionalScore:  req.Business.PromotionalScore,
		OutsideBusiness:   req.Business.IsOutsideBusiness,
		MicroEntrepreneur: req.Business.IsNeighborMicroEntrepreneur,
		ProfanityHits:     req.ProfanityHits,
	}
	if req.ImageRef != nil {
		data.ImageRef = *req.ImageRef
	}
	var buf bytes.Buffer
	if err := classifyTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render classify prompt: %w", err)
	}
	return buf.String(), nil
}

func buildReanalyzePrompt(req ReanalyzeRequest) (string, error) {
	lines := make([]string, 0, len(req.Reports))
	for _, r := range req.Reports {
		line := "- Category: " + string(r.Reason)
		if d := strings.TrimSpace(r.Details); d != "" {
			line += fmt.Sprintf(", Explanation: %q", d)
		}
		lines = append(lines, line)
	}
	data := struct {
		Text        string
		Lane        string
		Decision    string
		Reason      string
		Confidence  int
		ReportCount int
		Reports     string
	}{
		Text:        req.PostText,
		Lane:        string(req.Original.Lane),
		Decision:    string(req.Original.Decision),
		Reason:      req.Original.Reason,
		Confidence:  req.Original.Confidence,
		ReportCount: len(req.Reports),
		Reports:     strings.Join(lines, "\n"),
	}
	var buf bytes.Buffer
	if err := reanalyzeTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render reanalysis prompt: %w", err)
	}
	return buf.String(), nil
}
