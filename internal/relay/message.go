package relay

// Kind identifies the payload type of an inbound content message.
type Kind int

const (
	KindText Kind = iota
	KindPhoto
	KindVideo
	KindDocument
	KindVoice
	KindSticker
)

func (k Kind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindPhoto:
		return "photo"
	case KindVideo:
		return "video"
	case KindDocument:
		return "document"
	case KindVoice:
		return "voice"
	case KindSticker:
		return "sticker"
	default:
		return "unknown"
	}
}

// Message is a platform-neutral view of one inbound content message. Media
// is carried by an opaque file handle; the relay never downloads content.
type Message struct {
	From    int64
	Kind    Kind
	Text    string // body for KindText
	Caption string // media caption, may be empty
	FileID  string // platform file handle for media kinds
}

// Body returns the filterable text of the message: the text body for text
// messages, the caption for media.
func (m Message) Body() string {
	if m.Kind == KindText {
		return m.Text
	}
	return m.Caption
}
