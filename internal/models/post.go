package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ImageRef points at an uploaded image held by the external image
// store. ID is the store's handle used for release.
type ImageRef struct {
	URL string `bson:"url" json:"url"`
	ID  string `bson:"id" json:"id"`
}

// Post is the root interaction target. Comments and replies are
// embedded so every structural edit is an identity-keyed update on a
// single document. Insertion order of comments/replies is display
// order; removal is always by id, never by index.
type Post struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	CreatorID primitive.ObjectID   `bson:"creator_id" json:"creator_id"`
	Content   string               `bson:"content" json:"content"`
	Image     *ImageRef            `bson:"image,omitempty" json:"image,omitempty"`
	Likes     []primitive.ObjectID `bson:"likes" json:"likes"`
	Comments  []Comment            `bson:"comments" json:"comments"`
	CreatedAt time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time            `bson:"updated_at" json:"updated_at"`
}

type Comment struct {
	ID        primitive.ObjectID   `bson:"_id" json:"id"`
	AuthorID  primitive.ObjectID   `bson:"author_id" json:"author_id"`
	Content   string               `bson:"content" json:"content"`
	Image     *ImageRef            `bson:"image,omitempty" json:"image,omitempty"`
	Likes     []primitive.ObjectID `bson:"likes" json:"likes"`
	Replies   []Reply              `bson:"replies" json:"replies"`
	Edited    *time.Time           `bson:"edited,omitempty" json:"edited,omitempty"`
	CreatedAt time.Time            `bson:"created_at" json:"created_at"`
}

type Reply struct {
	ID        primitive.ObjectID   `bson:"_id" json:"id"`
	AuthorID  primitive.ObjectID   `bson:"author_id" json:"author_id"`
	Content   string               `bson:"content" json:"content"`
	Image     *ImageRef            `bson:"image,omitempty" json:"image,omitempty"`
	Likes     []primitive.ObjectID `bson:"likes" json:"likes"`
	Edited    *time.Time           `bson:"edited,omitempty" json:"edited,omitempty"`
	CreatedAt time.Time            `bson:"created_at" json:"created_at"`
}

// Comment returns the embedded comment with the given id, or nil.
func (p *Post) Comment(commentID primitive.ObjectID) *Comment {
	for i := range p.Comments {
		if p.Comments[i].ID == commentID {
			return &p.Comments[i]
		}
	}
	return nil
}

// Reply returns the embedded reply with the given id, or nil.
func (c *Comment) Reply(replyID primitive.ObjectID) *Reply {
	for i := range c.Replies {
		if c.Replies[i].ID == replyID {
			return &c.Replies[i]
		}
	}
	return nil
}

// CommenterIDs lists comment authors in chronological order. Duplicate
// authors are kept; the aggregator de-duplicates.
func (p *Post) CommenterIDs() []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(p.Comments))
	for i := range p.Comments {
		ids = append(ids, p.Comments[i].AuthorID)
	}
	return ids
}

// ReplierIDs lists reply authors in chronological order.
func (c *Comment) ReplierIDs() []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(c.Replies))
	for i := range c.Replies {
		ids = append(ids, c.Replies[i].AuthorID)
	}
	return ids
}

// DTOs

type CreatePostRequest struct {
	Content   string `json:"content"`
	ImagePath string `json:"image_path,omitempty"`
}

type CreateCommentRequest struct {
	Content   string `json:"content"`
	ImagePath string `json:"image_path,omitempty"`
}

type EditCommentRequest struct {
	Content string `json:"content" binding:"required"`
}

type CreateReplyRequest struct {
	Content   string `json:"content"`
	ImagePath string `json:"image_path,omitempty"`
}

type EditReplyRequest struct {
	Content string `json:"content" binding:"required"`
}

type PostListResponse struct {
	Posts []Post `json:"posts"`
	Total int64  `json:"total"`
	Page  int64  `json:"page"`
	Limit int64  `json:"limit"`
}
