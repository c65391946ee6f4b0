package Models

import "strings"

// Material is an instructional content item browsed independently of tasks.
type Material struct {
	ID          string `json:"id" firestore:"-"`
	Name        string `json:"name" firestore:"name"`
	ContentType string `json:"contentType" firestore:"contentType"`
	DownloadURL string `json:"downloadURL" firestore:"downloadURL"`
	Created     string `json:"created" firestore:"created"`
}

const (
	MaterialImage    = "image"
	MaterialVideo    = "video"
	MaterialDocument = "document"
)

// Kind classifies the material by its content type. Only PDFs count as
// documents; any other type has no kind and is not listed.
func (m Material) Kind() string {
	switch {
	case strings.HasPrefix(m.ContentType, "image/"):
		return MaterialImage
	case strings.HasPrefix(m.ContentType, "video/"):
		return MaterialVideo
	case m.ContentType == "application/pdf":
		return MaterialDocument
	default:
		return ""
	}
}

// PhotoRecord is the document written for every uploaded photo proof.
// It has the same shape as a material.
type PhotoRecord struct {
	Name        string `firestore:"name"`
	ContentType string `firestore:"contentType"`
	DownloadURL string `firestore:"downloadURL"`
	Created     string `firestore:"created"`
}
