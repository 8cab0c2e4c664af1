package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrUnparseableReply reports a model reply that carried no usable JSON
// object. Callers can distinguish it from transport failures.
var ErrUnparseableReply = errors.New("unparseable model reply")

// Annotator produces structured annotations on top of the raw
// chat-completion client, the way the dashboard pipeline consumes them.
type Annotator struct {
	client *Client
}

// NewAnnotator creates a new annotator
func NewAnnotator(client *Client) *Annotator {
	return &Annotator{client: client}
}

// PostInput describes one post for annotation
type PostInput struct {
	Platform    string
	Title       string
	AuthorName  string
	CreatorType string
}

// PostAnnotation is the structured annotation extracted from the reply
type PostAnnotation struct {
	Sentiment      string   `json:"sentiment"`
	RelevanceLabel string   `json:"relevance_label"`
	RiskCategories []string `json:"risk_categories"`
	Severity       string   `json:"severity"`
	Suggestion     string   `json:"suggestion"`
}

const annotatePromptTemplate = `你是餐饮品牌舆情分析助手。分析下面这条%s平台的内容并输出JSON：
标题: %s
作者: %s (%s)
输出字段: sentiment (positive/neutral/negative), relevance_label (相关/疑似相关/不相关), risk_categories (字符串数组), severity (high/mid/low), suggestion (处理建议)。只输出JSON。`

// AnnotatePost asks the model to annotate one post and extracts the
// JSON object from its reply.
func (a *Annotator) AnnotatePost(ctx context.Context, in PostInput) (*PostAnnotation, error) {
	prompt := fmt.Sprintf(annotatePromptTemplate, in.Platform, in.Title, in.AuthorName, in.CreatorType)

	reply, err := a.client.ChatCompletion(ctx, prompt)
	if err != nil {
		return nil, err
	}

	raw, ok := ExtractJSON(reply)
	if !ok {
		return nil, fmt.Errorf("%w: no JSON object", ErrUnparseableReply)
	}

	var annotation PostAnnotation
	if err := json.Unmarshal([]byte(raw), &annotation); err != nil {
		return nil, fmt.Errorf("%w: decoding annotation: %v", ErrUnparseableReply, err)
	}

	annotation.Sentiment = strings.ToLower(strings.TrimSpace(annotation.Sentiment))
	annotation.Severity = strings.ToLower(strings.TrimSpace(annotation.Severity))

	return &annotation, nil
}

// ChainNode mirrors one link of the APU chain in extraction output
type ChainNode struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// ChainExtraction is the structured APU chain extracted from a
// natural-language product description.
type ChainExtraction struct {
	Category    string     `json:"category"`
	Attribute   *ChainNode `json:"attribute"`
	Performance *ChainNode `json:"performance"`
	Use         *ChainNode `json:"use"`
	Style       *ChainNode `json:"style"`
	Keywords    []string   `json:"keywords"`
}

const extractPromptTemplate = `从下面的商品描述中提取APU因果链并输出JSON：
描述: %s
输出字段: category, attribute {code,label}, performance {code,label}, use {code,label}, style {code,label}, keywords (字符串数组)。
没有的链节点输出null。只输出JSON。`

// ExtractChain asks the model to extract an APU chain from text
func (a *Annotator) ExtractChain(ctx context.Context, text string) (*ChainExtraction, error) {
	prompt := fmt.Sprintf(extractPromptTemplate, text)

	reply, err := a.client.ChatCompletion(ctx, prompt)
	if err != nil {
		return nil, err
	}

	raw, ok := ExtractJSON(reply)
	if !ok {
		return nil, fmt.Errorf("%w: no JSON object", ErrUnparseableReply)
	}

	var chain ChainExtraction
	if err := json.Unmarshal([]byte(raw), &chain); err != nil {
		return nil, fmt.Errorf("%w: decoding chain: %v", ErrUnparseableReply, err)
	}

	return &chain, nil
}
