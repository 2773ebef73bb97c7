// Package client talks to the gym-coach HTTP API on behalf of the CLI.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"alcyxob/gym-coach/internal/domain"
	"alcyxob/gym-coach/internal/plan"
)

type Options struct {
	BaseURL    string // e.g. http://localhost:8080/api/v1
	Token      string
	Timeout    time.Duration
	HTTPClient *http.Client
}

type Client struct {
	baseURL    string
	token      string
	timeout    time.Duration
	httpClient *http.Client
}

func New(opts Options) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(opts.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("baseURL required")
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	return &Client{
		baseURL:    baseURL,
		token:      strings.TrimSpace(opts.Token),
		timeout:    timeout,
		httpClient: hc,
	}, nil
}

// SetToken replaces the bearer token, e.g. after Login.
func (c *Client) SetToken(token string) { c.token = strings.TrimSpace(token) }

// User is the public view of an account as the API returns it.
type User struct {
	ID        string           `json:"id"`
	Name      string           `json:"name"`
	Email     string           `json:"email"`
	ImgURL    string           `json:"imgUrl,omitempty"`
	Role      domain.Role      `json:"role,omitempty"`
	LastLogin *time.Time       `json:"lastLogin,omitempty"`
	Boarding  *domain.Boarding `json:"boarding,omitempty"`
}

// ExerciseDetail is one exercise with its media resolved.
type ExerciseDetail struct {
	Key           string           `json:"key"`
	BodyPartID    string           `json:"bodyPartId"`
	BodyPartName  string           `json:"bodyPartName"`
	ExerciseIndex int              `json:"exerciseIndex"`
	Exercise      domain.Exercise  `json:"exercise"`
	Steps         []string         `json:"steps"`
	MediaURL      string           `json:"mediaUrl"`
	MediaKind     domain.MediaKind `json:"mediaKind"`
}

type loginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type planResponse struct {
	Exercises plan.Plan `json:"exercises"`
}

type assignmentsBody struct {
	AssignedExercises domain.AssignmentSet `json:"assignedExercises"`
}

type orderBody struct {
	ExerciseOrder domain.ExerciseOrder `json:"exerciseOrder"`
}

// Login exchanges credentials for a token and keeps it for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (string, *User, error) {
	var out loginResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.doJSON(ctx, http.MethodPost, "/auth/login", body, &out); err != nil {
		return "", nil, err
	}
	c.SetToken(out.Token)
	return out.Token, &out.User, nil
}

func (c *Client) Me(ctx context.Context) (*User, error) {
	var out User
	if err := c.doJSON(ctx, http.MethodGet, "/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ---- Student ----

func (c *Client) MyPlan(ctx context.Context) (plan.Plan, error) {
	var out planResponse
	if err := c.doJSON(ctx, http.MethodGet, "/student/plan", nil, &out); err != nil {
		return nil, err
	}
	return out.Exercises, nil
}

// ---- Catalog ----

func (c *Client) BodyParts(ctx context.Context) ([]domain.BodyPart, error) {
	var out []domain.BodyPart
	if err := c.doJSON(ctx, http.MethodGet, "/body-parts", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Exercise(ctx context.Context, bodyPartID string, index int) (*ExerciseDetail, error) {
	var out ExerciseDetail
	if err := c.doJSON(ctx, http.MethodGet, exercisePath(bodyPartID, index), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateExercise overwrites the text fields of an exercise.
func (c *Client) UpdateExercise(ctx context.Context, bodyPartID string, index int, ex domain.Exercise) (*ExerciseDetail, error) {
	var out ExerciseDetail
	if err := c.doJSON(ctx, http.MethodPut, exercisePath(bodyPartID, index), ex, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ---- Trainer ----

func (c *Client) Students(ctx context.Context) ([]User, error) {
	var out []User
	if err := c.doJSON(ctx, http.MethodGet, "/trainer/students", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Assignments(ctx context.Context, studentID string) (domain.AssignmentSet, error) {
	var out assignmentsBody
	if err := c.doJSON(ctx, http.MethodGet, studentPath(studentID, "assignments"), nil, &out); err != nil {
		return nil, err
	}
	return out.AssignedExercises.Normalize(), nil
}

// SaveAssignments writes set verbatim; an empty set deletes the field server side.
func (c *Client) SaveAssignments(ctx context.Context, studentID string, set domain.AssignmentSet) (domain.AssignmentSet, error) {
	var out assignmentsBody
	in := assignmentsBody{AssignedExercises: set}
	if err := c.doJSON(ctx, http.MethodPut, studentPath(studentID, "assignments"), in, &out); err != nil {
		return nil, err
	}
	return out.AssignedExercises.Normalize(), nil
}

func (c *Client) ClearAssignments(ctx context.Context, studentID string) error {
	return c.doJSON(ctx, http.MethodDelete, studentPath(studentID, "assignments"), nil, nil)
}

func (c *Client) StudentPlan(ctx context.Context, studentID string) (plan.Plan, error) {
	var out planResponse
	if err := c.doJSON(ctx, http.MethodGet, studentPath(studentID, "plan"), nil, &out); err != nil {
		return nil, err
	}
	return out.Exercises, nil
}

func (c *Client) SaveOrder(ctx context.Context, studentID string, order domain.ExerciseOrder) error {
	return c.doJSON(ctx, http.MethodPut, studentPath(studentID, "order"), orderBody{ExerciseOrder: order}, nil)
}

// WatchExercise follows the live exercise stream, calling onUpdate for each
// event, until ctx is cancelled or the server ends the stream. Cancelling ctx
// releases the subscription and returns nil.
func (c *Client) WatchExercise(ctx context.Context, bodyPartID string, index int, onUpdate func(ExerciseDetail)) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+exercisePath(bodyPartID, index)+"/stream", nil)
	if err != nil {
		return err
	}
	c.setHeaders(req, "", "text/event-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return parseHTTPError(resp.StatusCode, raw)
	}

	err = streamSSE(resp.Body, func(event, data string) error {
		if event != "exercise" {
			return nil
		}
		var detail ExerciseDetail
		if err := json.Unmarshal([]byte(data), &detail); err != nil {
			return fmt.Errorf("decode exercise event: %w", err)
		}
		if onUpdate != nil {
			onUpdate(detail)
		}
		return nil
	})
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// ---------------- HTTP helpers ----------------

func exercisePath(bodyPartID string, index int) string {
	return fmt.Sprintf("/body-parts/%s/exercises/%d", url.PathEscape(bodyPartID), index)
}

func studentPath(studentID, leaf string) string {
	return "/trainer/students/" + url.PathEscape(studentID) + "/" + leaf
}

func (c *Client) setHeaders(req *http.Request, contentType string, accept string) {
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
}

func (c *Client) doJSON(ctx context.Context, method string, path string, body any, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	c.setHeaders(req, "application/json", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return parseHTTPError(resp.StatusCode, raw)
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}
