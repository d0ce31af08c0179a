// Package openai implementa el oráculo de similitud de fotos contra la
// API de chat completions con visión. Es la llamada más cara del sistema
// (red + modelo); el engine la invoca una vez por par candidato.
package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"salva-mascotas/internal/platform/httpclient"
)

const (
	defaultBaseURL = "https://api.openai.com"
	defaultModel   = "gpt-4.1-mini"
	chatPath       = "/v1/chat/completions"
)

const prompt = `Eres un modelo que compara si dos fotos muestran a la MISMA mascota.
Analiza: color del pelaje, forma de la cabeza, orejas, ojos, manchas y proporciones.
Devuelve SOLO un número entre 0 y 1 con máximo dos decimales.
0 = no se parecen nada.
1 = es prácticamente la misma mascota.
Responde solo el número, sin texto adicional.`

// Primer token con forma de confianza normalizada (decimal entre 0 y 1).
var scoreRe = regexp.MustCompile(`([01](?:\.\d+)?)`)

// Config del cliente. La APIKey vacía es un estado válido y testeable:
// el cliente queda degradado y todo MatchScore devuelve 0.
type Config struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

type Client struct {
	apiKey string
	model  string
	http   *httpclient.Client
	log    *zap.SugaredLogger
}

func NewClient(cfg Config, log *zap.SugaredLogger) *Client {
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = defaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = httpclient.DefaultTimeout
	}

	hc := httpclient.New(timeout)
	hc.BaseURL = base

	return &Client{
		apiKey: strings.TrimSpace(cfg.APIKey),
		model:  model,
		http:   hc,
		log:    log,
	}
}

// NewClientWithTransport inyecta un RoundTripper (tests).
func NewClientWithTransport(cfg Config, log *zap.SugaredLogger, tr http.RoundTripper) *Client {
	c := NewClient(cfg, log)
	c.http = httpclient.NewWithTransport(cfg.Timeout, tr)
	c.http.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if c.http.BaseURL == "" {
		c.http.BaseURL = defaultBaseURL
	}
	return c
}

func (c *Client) IsConfigured() bool {
	return c != nil && c.apiKey != ""
}

type message struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type textContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type imageURL struct {
	URL string `json:"url"`
}

type imageContent struct {
	Type     string   `json:"type"`
	ImageURL imageURL `json:"image_url"`
}

type chatRequest struct {
	Model     string    `json:"model"`
	Messages  []message `json:"messages"`
	MaxTokens int       `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content any `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// MatchScore compara la foto del reporte lost contra la del found.
// Nunca devuelve error: toda falla degrada a 0 (un error de comparación
// jamás debe contar como match) y queda logueada para diagnóstico.
func (c *Client) MatchScore(ctx context.Context, lostPhotoURL, foundPhotoURL string) float64 {
	if !c.IsConfigured() {
		c.log.Warnw("vision oracle not configured, returning score 0")
		return 0
	}

	req := chatRequest{
		Model: c.model,
		Messages: []message{
			{
				Role: "user",
				Content: []any{
					textContent{Type: "text", Text: prompt},
					imageContent{Type: "image_url", ImageURL: imageURL{URL: lostPhotoURL}},
					imageContent{Type: "image_url", ImageURL: imageURL{URL: foundPhotoURL}},
				},
			},
		},
		MaxTokens: 10,
	}

	headers := map[string]string{
		"Authorization": "Bearer " + c.apiKey,
	}

	var resp chatResponse
	if err := c.http.DoJSON(ctx, http.MethodPost, chatPath, headers, req, &resp); err != nil {
		c.log.Errorw("vision oracle call failed", "error", err)
		return 0
	}

	if len(resp.Choices) == 0 {
		c.log.Errorw("vision oracle returned no choices")
		return 0
	}

	return c.parseScore(resp.Choices[0].Message.Content)
}

// parseScore tolera respuestas que mezclan texto libre con el número:
// extrae el primer token con forma de score. Sin token => 0.
func (c *Client) parseScore(content any) float64 {
	var text string
	switch v := content.(type) {
	case string:
		text = v
	default:
		// Algunos modelos devuelven content como lista de partes.
		b, err := json.Marshal(v)
		if err != nil {
			c.log.Errorw("vision oracle content not serializable", "error", err)
			return 0
		}
		text = string(b)
	}

	m := scoreRe.FindString(text)
	if m == "" {
		c.log.Warnw("vision oracle response has no score token", "content", text)
		return 0
	}

	score, err := strconv.ParseFloat(m, 64)
	if err != nil {
		c.log.Warnw("vision oracle score not parseable", "token", m)
		return 0
	}

	return clamp01(score)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
