package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// replyServer returns a chat-completion endpoint that always answers
// with the given message content.
func replyServer(t *testing.T, content string) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": content}},
			},
		})
	}))
}

func TestExtractChainParsesReply(t *testing.T) {
	srv := replyServer(t, "```json\n{\"category\": \"food\", \"attribute\": {\"code\": \"spicy\", \"label\": \"辣度\"}, \"keywords\": [\"麻辣\"]}\n```")
	defer srv.Close()

	a := NewAnnotator(New(WithBaseURL(srv.URL)))

	chain, err := a.ExtractChain(context.Background(), "这家的麻辣火锅很辣")
	if err != nil {
		t.Fatalf("ExtractChain: %v", err)
	}
	if chain.Category != "food" {
		t.Errorf("category = %q", chain.Category)
	}
	if chain.Attribute == nil || chain.Attribute.Code != "spicy" {
		t.Errorf("attribute = %+v", chain.Attribute)
	}
	if len(chain.Keywords) != 1 || chain.Keywords[0] != "麻辣" {
		t.Errorf("keywords = %v", chain.Keywords)
	}
}

func TestExtractChainUnparseableReply(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"no JSON at all", "抱歉，我无法从这段文字中提取产品链。"},
		{"JSON of the wrong shape", "{\"attribute\": \"just a string\"}"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			srv := replyServer(t, c.content)
			defer srv.Close()

			a := NewAnnotator(New(WithBaseURL(srv.URL)))

			_, err := a.ExtractChain(context.Background(), "some text")
			if !errors.Is(err, ErrUnparseableReply) {
				t.Fatalf("err = %v, want ErrUnparseableReply", err)
			}
		})
	}
}

func TestAnnotatePostUnparseableReply(t *testing.T) {
	srv := replyServer(t, "no structured output here")
	defer srv.Close()

	a := NewAnnotator(New(WithBaseURL(srv.URL)))

	_, err := a.AnnotatePost(context.Background(), PostInput{Platform: "douyin", Title: "t"})
	if !errors.Is(err, ErrUnparseableReply) {
		t.Fatalf("err = %v, want ErrUnparseableReply", err)
	}
}

func TestAnnotatePostNormalizesFields(t *testing.T) {
	srv := replyServer(t, "{\"sentiment\": \" Negative \", \"relevance_label\": \"相关\", \"risk_categories\": [\"food_safety\"], \"severity\": \"HIGH\"}")
	defer srv.Close()

	a := NewAnnotator(New(WithBaseURL(srv.URL)))

	out, err := a.AnnotatePost(context.Background(), PostInput{Platform: "douyin", Title: "t"})
	if err != nil {
		t.Fatalf("AnnotatePost: %v", err)
	}
	if out.Sentiment != "negative" {
		t.Errorf("sentiment = %q", out.Sentiment)
	}
	if out.Severity != "high" {
		t.Errorf("severity = %q", out.Severity)
	}
}
