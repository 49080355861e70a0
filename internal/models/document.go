package models

// Document is the metadata record for one ingested PDF. The ID is assigned
// by the metadata store at creation; every other field is written once
// during ingestion and never mutated.
type Document struct {
	ID          string `firestore:"-" json:"id"`
	Name        string `firestore:"name" json:"name"`
	UploadTime  string `firestore:"uploadTime" json:"upload_time"`
	Size        int64  `firestore:"size" json:"size"`
	Pages       int    `firestore:"pages" json:"pages"`
	SentencesID string `firestore:"sentencesId,omitempty" json:"sentences_id,omitempty"`
}

// SentenceRecord holds the segmented sentences of one document in reading
// order. Stored in its own collection so metadata-only scans never pull
// full document text.
type SentenceRecord struct {
	ID        string   `firestore:"-" json:"-"`
	Sentences []string `firestore:"sentences" json:"sentences"`
}
