package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"strings"
	"time"
	"unicode"

	"github.com/rs/zerolog/log"
)

const geminiEndpoint = "https://generativelanguage.googleapis.com/v1beta/models/gemini-1.5-flash-latest:generateContent"

// 遠端產生失敗時使用的本地後備題庫與單字表
var fallbackTopics = []string{
	"Should social media platforms be responsible for user-generated content?",
	"Are movie remakes ever better than the original?",
	"Is it acceptable to recline your seat on an airplane?",
	"Is artificial intelligence a threat to humanity?",
	"Streaming vs. Owning: Is it better to stream media (Netflix, Spotify) or own physical copies (Blu-rays, vinyl)?",
	"AI in Music: Should artists be allowed to use AI to create songs?",
}

var passwordWords = []string{
	"rhetoric", "eloquence", "debate", "argument", "logic", "reason",
	"persuasion", "discourse", "dialogue", "discussion", "analysis",
	"critical", "thinking", "speaking", "presentation", "evidence",
}

// GeneratorService 透過 Gemini 產生課堂密碼與辯題
// 遠端呼叫失敗或回傳不合理的結果時一律退回本地產生，呼叫端永遠拿得到可用的值
type GeneratorService struct {
	apiKey     string
	httpClient *http.Client
	rng        *rand.Rand
}

func NewGeneratorService(apiKey string) *GeneratorService {
	return &GeneratorService{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second, // 絕不無限等待遠端
		},
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

type geminiRequest struct {
	Contents         []geminiContent   `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// GeneratePassword 產生一組好記的課堂密碼
func (s *GeneratorService) GeneratePassword(ctx context.Context) string {
	prompt := `Generate a unique, memorable password for a classroom debate session.
Requirements:
- Should be related to debating, public speaking, or critical thinking
- Include 2-3 random numbers
- Be 8-12 characters long
- Easy to remember and type
- No special characters that might cause input issues

Examples of good passwords: "rhetoric42", "eloquence7", "debate2024"

Return only the password, nothing else.`

	generated, err := s.callGemini(ctx, prompt, &generationConfig{Temperature: 0.7, MaxOutputTokens: 50})
	if err != nil {
		log.Warn().Err(err).Msg("遠端密碼產生失敗，改用本地產生")
		return s.fallbackPassword()
	}

	cleaned := strings.NewReplacer(`"`, "", "'", "", " ", "", "\n", "").Replace(generated)
	if len(cleaned) < 6 {
		log.Warn().Str("generated", generated).Msg("遠端回傳的密碼太短，改用本地產生")
		return s.fallbackPassword()
	}
	if len(cleaned) > 20 {
		cleaned = cleaned[:20]
	}
	return cleaned
}

// GenerateTopic 產生一個適合暖場的辯題
func (s *GeneratorService) GenerateTopic(ctx context.Context) string {
	prompt := `Generate a single, engaging, and debatable topic suitable for college students.
The topic should be a question.
Do not add any extra text, introduction, or quotation marks.
No political or overly controversial topics.
Keep it concise (under 100 characters). Topics focusing on light-hearted subjects like social media, pop culture, technology, movies, music, sports.
Keep in mind this is an ice-breaker debate topic for college students.`

	generated, err := s.callGemini(ctx, prompt, &generationConfig{Temperature: 0.9, MaxOutputTokens: 100})
	if err != nil {
		log.Warn().Err(err).Msg("遠端辯題產生失敗，改用本地題庫")
		return s.fallbackTopic()
	}
	if generated == "" {
		return s.fallbackTopic()
	}
	return generated
}

func (s *GeneratorService) callGemini(ctx context.Context, prompt string, cfg *generationConfig) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("未設定 Gemini API key")
	}

	body, err := json.Marshal(geminiRequest{
		Contents:         []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
		GenerationConfig: cfg,
	})
	if err != nil {
		return "", err
	}

	url := geminiEndpoint + "?key=" + s.apiKey
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini api error: %d", resp.StatusCode)
	}

	var parsed geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini 回應中沒有內容")
	}
	return strings.TrimSpace(parsed.Candidates[0].Content.Parts[0].Text), nil
}

func (s *GeneratorService) fallbackPassword() string {
	word := passwordWords[s.rng.Intn(len(passwordWords))]
	return fmt.Sprintf("%s%03d", word, s.rng.Intn(1000))
}

func (s *GeneratorService) fallbackTopic() string {
	return fallbackTopics[s.rng.Intn(len(fallbackTopics))]
}

// ValidatePassword 檢查 session 密碼格式：6 到 20 個可列印字元
func ValidatePassword(password string) bool {
	if len(password) < 6 || len(password) > 20 {
		return false
	}
	for _, r := range password {
		if !unicode.IsPrint(r) {
			return false
		}
	}
	return true
}
