package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/voiceprint/voiceprint/internal/export"
	"github.com/voiceprint/voiceprint/internal/ingest"
	"github.com/voiceprint/voiceprint/internal/personalize"
	"github.com/voiceprint/voiceprint/internal/profile"
)

// profileSessions is how many recent sessions get_profile includes.
const profileSessions = 10

func (s *Server) handleAnalyzeMessage(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: text"), nil
	}
	return jsonResult(s.an.Analyze(text))
}

func (s *Server) handleRewriteText(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError("missing required parameter: content"), nil
	}

	r := personalize.Request{
		Content:              content,
		Purpose:              personalize.Purpose(req.GetString("purpose", "")),
		Tone:                 personalize.Tone(req.GetString("tone", "")),
		Length:               personalize.Length(req.GetString("length", "")),
		Context:              req.GetString("context", ""),
		GenerateAlternatives: req.GetBool("alternatives", false),
	}
	if v, ok := req.GetArguments()["emoji"].(bool); ok {
		r.Emoji = &v
	}

	p, err := s.store.Profiles.Load(s.user(req))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load profile: %v", err)), nil
	}

	s.renderMu.Lock()
	res, err := s.engine.RenderWithAlternatives(r, p)
	s.renderMu.Unlock()
	if errors.Is(err, personalize.ErrInvalidRequest) {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("rewrite failed: %v", err)), nil
	}
	return jsonResult(res)
}

func (s *Server) handleGetProfile(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	format := req.GetString("format", "json")
	exp, ok := export.Get(format)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown format %q (valid: %s)",
			format, strings.Join(export.ValidFormats(), ", "))), nil
	}

	userID := s.user(req)
	p, err := s.store.Profiles.Load(userID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load profile: %v", err)), nil
	}
	sessions, err := s.store.Sessions.List(userID, profileSessions)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list sessions: %v", err)), nil
	}

	out, err := exp.Export(export.ExportData{Profile: p, Sessions: sessions})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("export failed: %v", err)), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) handleLearnMessages(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	messages := req.GetStringSlice("messages", nil)
	if len(messages) == 0 {
		return mcp.NewToolResultError("missing required parameter: messages"), nil
	}
	responses := req.GetStringSlice("responses", nil)

	ex := make([]ingest.Exchange, 0, len(messages))
	for i, m := range messages {
		if strings.TrimSpace(m) == "" {
			continue
		}
		e := ingest.Exchange{User: m}
		if i < len(responses) {
			e.AI = responses[i]
		}
		ex = append(ex, e)
	}
	if len(ex) == 0 {
		return mcp.NewToolResultError("messages are all empty"), nil
	}

	userID := s.user(req)
	res, err := s.learner.Exchanges(userID, "mcp", ex, nil)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("learning failed: %v", err)), nil
	}
	s.log.Info("learned via mcp",
		zap.String("user", userID),
		zap.Int("messages", len(ex)),
		zap.Int("version", res.Outcome.Delta.VersionAfter),
	)
	return jsonResult(res.Outcome.Delta)
}

func (s *Server) handleUpdateBusiness(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	info := profile.BusinessInfo{
		CompanyName:     req.GetString("company_name", ""),
		Industry:        req.GetString("industry", ""),
		Role:            req.GetString("role", ""),
		Products:        req.GetString("products", ""),
		TargetCustomers: req.GetString("target_customers", ""),
		Goals:           req.GetString("goals", ""),
	}
	if info == (profile.BusinessInfo{}) {
		return mcp.NewToolResultError("no business fields given"), nil
	}

	userID := s.user(req)
	unlock := s.locks.Lock(userID)
	defer unlock()

	p, err := s.store.Profiles.Load(userID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load profile: %v", err)), nil
	}
	next := s.mgr.UpdateBusinessInfo(p, info)
	if err := s.store.Profiles.Save(next); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to save profile: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Business info saved (profile version %d, data richness %.0f).",
		next.Version, next.Quality.DataRichness)), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
