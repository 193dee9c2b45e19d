package execution

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/0xteamMuffin/Hireability/internal/models"
)

// TestCase is one input/expected pair from a stored coding problem.
type TestCase struct {
	Input    string `json:"input"`
	Expected string `json:"expected"`
}

// Runner executes code against test cases. Satisfied by Client and by
// test doubles.
type Runner interface {
	RunTests(ctx context.Context, language, code string, cases []TestCase) *models.ExecutionResult
}

// Client talks to the external sandboxed execution API. The sandbox is an
// external collaborator; only its request/response contract matters here.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(baseURL string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		logger: logger,
	}
}

type executeRequest struct {
	Language string `json:"language"`
	Source   string `json:"source"`
	Stdin    string `json:"stdin"`
}

type stageResult struct {
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
	ExitCode int    `json:"exitCode"`
}

type executeResponse struct {
	Compile *stageResult `json:"compile,omitempty"`
	Run     stageResult  `json:"run"`
}

// RunTests executes the submission once per test case and aggregates the
// outcomes. Sandbox failures mark the affected case failed with the error
// in stderr; the interview always gets a result back.
func (c *Client) RunTests(ctx context.Context, language, code string, cases []TestCase) *models.ExecutionResult {
	result := &models.ExecutionResult{
		Total:       len(cases),
		TestResults: make([]models.TestCaseResult, 0, len(cases)),
	}

	for _, testCase := range cases {
		resp, err := c.execute(ctx, language, code, testCase.Input)
		entry := models.TestCaseResult{
			Input:    testCase.Input,
			Expected: testCase.Expected,
		}
		switch {
		case err != nil:
			c.logger.Warn("sandbox execution failed", zap.Error(err))
			entry.Stderr = err.Error()
		case resp.Compile != nil && resp.Compile.ExitCode != 0:
			// compile failure fails every case identically
			result.CompileErr = resp.Compile.Stderr
			entry.Stderr = resp.Compile.Stderr
		default:
			entry.Actual = strings.TrimRight(resp.Run.Stdout, "\n")
			entry.Stderr = resp.Run.Stderr
			entry.Passed = resp.Run.ExitCode == 0 &&
				entry.Actual == strings.TrimRight(testCase.Expected, "\n")
		}
		if entry.Passed {
			result.Passed++
		}
		result.TestResults = append(result.TestResults, entry)
	}

	result.AllPassed = result.Total > 0 && result.Passed == result.Total
	return result
}

func (c *Client) execute(ctx context.Context, language, code, stdin string) (*executeResponse, error) {
	body, err := json.Marshal(executeRequest{
		Language: strings.ToLower(language),
		Source:   code,
		Stdin:    stdin,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/execute", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("execution API returned status %d", resp.StatusCode)
	}

	var out executeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode execution response: %w", err)
	}
	return &out, nil
}
