package handlers

import (
	"net/http"
	"testing"

	"github.com/vishnudev3154/Judex-AI/internal/domain"
)

func TestCaseChat_PostListETagAndFiles(t *testing.T) {
	h := newHarness(t)
	client := h.signUp("client@example.com", domain.RoleClient)
	lawyer := h.signUp("lawyer@example.com", domain.RoleLawyer)
	outsider := h.signUp("outsider@example.com", domain.RoleClient)
	rep := h.acceptedRepresentation(client, lawyer)
	base := "/api/v1/representations/" + rep.ID + "/chat/messages"

	w := h.do(http.MethodPost, base, &client, PostCaseChatRequest{Text: "  "})
	expectCode(t, w, http.StatusBadRequest, ErrCodeEmptyMessage)

	w = h.do(http.MethodPost, base, &client, PostCaseChatRequest{Text: "Hello counsel"})
	expectStatus(t, w, http.StatusCreated)

	w = h.do(http.MethodPost, base, &lawyer, newMultipart().field("text", "Please sign this").
		file("file", "vakalat.txt", []byte("I hereby appoint")))
	expectStatus(t, w, http.StatusCreated)
	withFile := decode[domain.CaseChatMessage](t, w)

	w = h.do(http.MethodPost, base, &outsider, PostCaseChatRequest{Text: "let me in"})
	expectCode(t, w, http.StatusForbidden, ErrCodeForbidden)

	w = h.do(http.MethodGet, base+"?page_size=1", &client, nil)
	expectStatus(t, w, http.StatusOK)
	page := decode[ListCaseChatResponse](t, w)
	if len(page.Messages) != 1 || page.Messages[0].Text != "Hello counsel" {
		t.Fatalf("first page=%+v", page.Messages)
	}
	if page.Pagination.Total != 2 || !page.Pagination.HasNext {
		t.Fatalf("pagination=%+v", page.Pagination)
	}
	etag := w.Header().Get("ETag")
	if etag == "" {
		t.Fatal("missing ETag")
	}

	w = h.do(http.MethodGet, base+"?page_size=1", &client, nil, "If-None-Match", etag)
	expectStatus(t, w, http.StatusNotModified)

	w = h.do(http.MethodGet, base+"/"+withFile.ID+"/file", &client, nil)
	expectStatus(t, w, http.StatusOK)
	if w.Body.String() != "I hereby appoint" {
		t.Fatalf("file body=%q", w.Body.String())
	}
	w = h.do(http.MethodGet, base+"/"+withFile.ID+"/file", &outsider, nil)
	expectCode(t, w, http.StatusForbidden, ErrCodeForbidden)
}

func TestForwardCase_RequiresAcceptedRepresentation(t *testing.T) {
	h := newHarness(t)
	client := h.signUp("client@example.com", domain.RoleClient)
	lawyer := h.signUp("lawyer@example.com", domain.RoleLawyer)

	w := h.do(http.MethodPost, "/api/v1/cases", &client, newMultipart().field("title", "Theft dispute"))
	expectStatus(t, w, http.StatusCreated)
	cs := decode[domain.CaseSubmission](t, w)

	w = h.do(http.MethodPost, "/api/v1/representations", &client,
		newMultipart().field("lawyer_id", lawyer.acct.ID).field("title", "Pending one"))
	expectStatus(t, w, http.StatusCreated)
	pending := decode[domain.Representation](t, w)

	w = h.do(http.MethodPost, "/api/v1/cases/"+cs.ID+"/forward", &client, ForwardCaseRequest{RepresentationID: pending.ID})
	expectCode(t, w, http.StatusConflict, ErrCodeNotAccepted)

	w = h.do(http.MethodPost, "/api/v1/representations/"+pending.ID+"/decision", &lawyer, DecisionRequest{Status: "Accepted"})
	expectStatus(t, w, http.StatusOK)

	w = h.do(http.MethodPost, "/api/v1/cases/"+cs.ID+"/forward", &client, ForwardCaseRequest{RepresentationID: pending.ID})
	expectStatus(t, w, http.StatusCreated)
	if m := decode[domain.CaseChatMessage](t, w); m.Kind != domain.KindForwardedCase {
		t.Fatalf("kind=%s", m.Kind)
	}

	w = h.do(http.MethodPost, "/api/v1/cases/"+cs.ID+"/forward", &client, map[string]string{})
	expectCode(t, w, http.StatusBadRequest, ErrCodeBadRequest)
}
