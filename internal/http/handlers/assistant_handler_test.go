package handlers

import (
	"net/http"
	"testing"

	"github.com/vishnudev3154/Judex-AI/internal/domain"
	"github.com/vishnudev3154/Judex-AI/internal/http/middleware"
	"github.com/vishnudev3154/Judex-AI/internal/services"
)

func TestAssistantChats_CreateListRename(t *testing.T) {
	h := newHarness(t)
	u := h.signUp("client@example.com", domain.RoleClient)
	other := h.signUp("other@example.com", domain.RoleLawyer)

	w := h.do(http.MethodPost, "/api/v1/assistant/chats", &u, nil)
	expectStatus(t, w, http.StatusCreated)
	chat := decode[domain.AssistantChat](t, w)

	w = h.do(http.MethodGet, "/api/v1/assistant/chats", &u, nil)
	expectStatus(t, w, http.StatusOK)
	list := decode[ListChatsResponse](t, w)
	if len(list.Chats) != 1 || list.Pagination.Total != 1 || list.Pagination.HasNext {
		t.Fatalf("list=%+v", list)
	}
	etag := w.Header().Get("ETag")
	w = h.do(http.MethodGet, "/api/v1/assistant/chats", &u, nil, "If-None-Match", etag)
	expectStatus(t, w, http.StatusNotModified)

	w = h.do(http.MethodPut, "/api/v1/assistant/chats/"+chat.ID+"/title", &u, UpdateChatTitleRequest{Title: "Deposit"})
	expectStatus(t, w, http.StatusNoContent)
	w = h.do(http.MethodPut, "/api/v1/assistant/chats/"+chat.ID+"/title", &other, UpdateChatTitleRequest{Title: "Mine now"})
	expectCode(t, w, http.StatusNotFound, ErrCodeNotFound)
	w = h.do(http.MethodPut, "/api/v1/assistant/chats/"+chat.ID+"/title", &u, UpdateChatTitleRequest{Title: "  "})
	expectCode(t, w, http.StatusBadRequest, ErrCodeBadRequest)

	// The rename moved the chat forward, so the old ETag is stale.
	w = h.do(http.MethodGet, "/api/v1/assistant/chats", &u, nil, "If-None-Match", etag)
	expectStatus(t, w, http.StatusOK)
	if got := decode[ListChatsResponse](t, w); got.Chats[0].Title != "Deposit" {
		t.Fatalf("title=%q", got.Chats[0].Title)
	}
}

func TestAssistantMessages_AnswerReplayAndFeedback(t *testing.T) {
	h := newHarness(t)
	u := h.signUp("client@example.com", domain.RoleClient)

	w := h.do(http.MethodPost, "/api/v1/assistant/chats", &u, CreateChatRequest{Title: "Tenancy"})
	expectStatus(t, w, http.StatusCreated)
	chat := decode[domain.AssistantChat](t, w)
	base := "/api/v1/assistant/chats/" + chat.ID + "/messages"

	w = h.do(http.MethodPost, base, &u, PostMessageRequest{Content: "Can my landlord keep the deposit?"},
		middleware.HeaderIdempotencyKey, "ask-1")
	expectStatus(t, w, http.StatusOK)
	first := decode[PostMessageResponse](t, w)
	if first.Message == nil || first.Message.Content != h.gw.answer || first.Message.Role != "assistant" {
		t.Fatalf("answer=%+v", first.Message)
	}

	w = h.do(http.MethodPost, base, &u, PostMessageRequest{Content: "Can my landlord keep the deposit?"},
		middleware.HeaderIdempotencyKey, "ask-1")
	expectStatus(t, w, http.StatusOK)
	if w.Header().Get(middleware.HeaderIdempotencyReplayed) != "true" {
		t.Fatal("missing replay header")
	}
	if again := decode[PostMessageResponse](t, w); again.Message.ID != first.Message.ID {
		t.Fatalf("replayed id=%s want %s", again.Message.ID, first.Message.ID)
	}
	if h.gw.asks != 1 {
		t.Fatalf("asks=%d want 1", h.gw.asks)
	}

	w = h.do(http.MethodPost, base, &u, PostMessageRequest{Content: "x"}, middleware.HeaderIdempotencyKey, "bad key!")
	expectStatus(t, w, http.StatusBadRequest)

	w = h.do(http.MethodGet, base, &u, nil)
	expectStatus(t, w, http.StatusOK)
	msgs := decode[ListMessagesResponse](t, w)
	if len(msgs.Messages) != 2 || msgs.Messages[0].Role != "user" {
		t.Fatalf("messages=%+v", msgs.Messages)
	}

	fb := "/api/v1/assistant/messages/" + first.Message.ID + "/feedback"
	w = h.do(http.MethodPost, fb, &u, LeaveFeedbackRequest{Value: 1})
	expectStatus(t, w, http.StatusNoContent)
	w = h.do(http.MethodPost, fb, &u, LeaveFeedbackRequest{Value: -1})
	expectCode(t, w, http.StatusConflict, ErrCodeConflict)
	w = h.do(http.MethodPost, "/api/v1/assistant/messages/"+msgs.Messages[0].ID+"/feedback", &u, LeaveFeedbackRequest{Value: 1})
	expectCode(t, w, http.StatusForbidden, ErrCodeForbidden)
	w = h.do(http.MethodPost, fb, &u, map[string]int{"value": 2})
	expectCode(t, w, http.StatusBadRequest, ErrCodeBadRequest)
}

func TestAssistantMessages_DegradedNotRemembered(t *testing.T) {
	h := newHarness(t)
	u := h.signUp("client@example.com", domain.RoleClient)
	w := h.do(http.MethodPost, "/api/v1/assistant/chats", &u, nil)
	chat := decode[domain.AssistantChat](t, w)
	base := "/api/v1/assistant/chats/" + chat.ID + "/messages"

	h.gw.failAll = true
	w = h.do(http.MethodPost, base, &u, PostMessageRequest{Content: "Is a verbal contract binding?"},
		middleware.HeaderIdempotencyKey, "ask-1")
	expectStatus(t, w, http.StatusOK)
	if m := decode[PostMessageResponse](t, w); !m.Message.Degraded {
		t.Fatalf("want degraded reply, got %+v", m.Message)
	}

	h.gw.failAll = false
	w = h.do(http.MethodPost, base, &u, PostMessageRequest{Content: "Is a verbal contract binding?"},
		middleware.HeaderIdempotencyKey, "ask-1")
	expectStatus(t, w, http.StatusOK)
	if w.Header().Get(middleware.HeaderIdempotencyReplayed) != "" {
		t.Fatal("degraded reply was replayed")
	}
	if m := decode[PostMessageResponse](t, w); m.Message.Degraded || m.Message.Content != h.gw.answer {
		t.Fatalf("retry=%+v", m.Message)
	}
}

func TestAssistantMessages_UploadFiledAsCase(t *testing.T) {
	h := newHarness(t)
	u := h.signUp("client@example.com", domain.RoleClient)
	w := h.do(http.MethodPost, "/api/v1/assistant/chats", &u, nil)
	chat := decode[domain.AssistantChat](t, w)

	w = h.do(http.MethodPost, "/api/v1/assistant/chats/"+chat.ID+"/messages", &u,
		newMultipart().file("file", "notice.txt", []byte("Eviction notice dated 1 March")))
	expectStatus(t, w, http.StatusOK)

	w = h.do(http.MethodGet, "/api/v1/cases", &u, nil)
	expectStatus(t, w, http.StatusOK)
	cases := decode[[]domain.CaseSubmission](t, w)
	if len(cases) != 1 || cases[0].Title != "Chat Upload: notice.txt" || !cases[0].Reviewed {
		t.Fatalf("cases=%+v", cases)
	}

	w = h.do(http.MethodPost, "/api/v1/assistant/chats/"+chat.ID+"/messages", &u, newMultipart())
	expectCode(t, w, http.StatusBadRequest, ErrCodeBadRequest)
	w = h.do(http.MethodPost, "/api/v1/assistant/chats/missing/messages", &u, PostMessageRequest{Content: "hi"})
	expectCode(t, w, http.StatusNotFound, ErrCodeNotFound)
}

var _ AssistantService = (*services.AssistantService)(nil)
