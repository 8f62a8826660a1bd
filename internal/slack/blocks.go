// Package slack posts Block Kit messages to a Slack incoming webhook.
package slack

// Message is the webhook payload.
type Message struct {
	Channel string  `json:"channel,omitempty"`
	Text    string  `json:"text,omitempty"`
	Blocks  []Block `json:"blocks"`
}

// Text is a Block Kit text object.
type Text struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Emoji bool   `json:"emoji,omitempty"`
}

// Block is a layout block. Only the fields relevant to Type are set.
type Block struct {
	Type     string `json:"type"`
	Text     *Text  `json:"text,omitempty"`
	Fields   []Text `json:"fields,omitempty"`
	Elements []Text `json:"elements,omitempty"`
}

// Mrkdwn returns a mrkdwn text object.
func Mrkdwn(s string) Text { return Text{Type: "mrkdwn", Text: s} }

// Header returns a plain-text header block.
func Header(s string) Block {
	return Block{Type: "header", Text: &Text{Type: "plain_text", Text: s, Emoji: true}}
}

// Section returns a section block with mrkdwn text.
func Section(s string) Block {
	t := Mrkdwn(s)
	return Block{Type: "section", Text: &t}
}

// Fields returns a section block laid out as two-column fields.
func Fields(texts ...string) Block {
	fs := make([]Text, len(texts))
	for i, s := range texts {
		fs[i] = Mrkdwn(s)
	}
	return Block{Type: "section", Fields: fs}
}

// Context returns a context block with one mrkdwn element.
func Context(s string) Block {
	return Block{Type: "context", Elements: []Text{Mrkdwn(s)}}
}

// Divider returns a divider block.
func Divider() Block { return Block{Type: "divider"} }
