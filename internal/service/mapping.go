package service

import (
	"github.com/community-records-api/internal/models"
	"github.com/community-records-api/internal/records"
)

// Platform tables
const (
	commentTable   = "comment_c"
	communityTable = "community_c"
	userTable      = "user_c"
)

// Platform field names
const (
	fieldCreatedOn = "CreatedOn"
	fieldName      = "Name"

	fieldCommentContent    = "content_c"
	fieldCommentPost       = "post_c"
	fieldCommentAuthor     = "author_c"
	fieldCommentAuthorName = "authorName_c"
	fieldCommentUpvotes    = "upvotes_c"
	fieldCommentDownvotes  = "downvotes_c"

	fieldCommunityName        = "name_c"
	fieldCommunityDescription = "description_c"
	fieldCommunityMembers     = "member_count_c"
	fieldCommunityColor       = "color_c"
	fieldCommunityCategory    = "category_c"
	fieldCommunityPosts       = "post_count_c"

	fieldUserEmail     = "email_c"
	fieldUserBio       = "bio_c"
	fieldUserAvatar    = "avatar_c"
	fieldUserKarma     = "karma_c"
	fieldUserCreatedAt = "created_at_c"
)

var (
	commentFields = []string{
		records.IDField,
		fieldCommentContent,
		fieldCommentPost,
		fieldCommentAuthor,
		fieldCommentAuthorName,
		fieldCommentUpvotes,
		fieldCommentDownvotes,
		fieldCreatedOn,
	}

	communityFields = []string{
		fieldName,
		fieldCommunityName,
		fieldCommunityDescription,
		fieldCommunityMembers,
		fieldCommunityColor,
		fieldCommunityCategory,
		fieldCommunityPosts,
	}

	userFields = []string{
		records.IDField,
		fieldName,
		fieldUserEmail,
		fieldUserBio,
		fieldUserAvatar,
		fieldUserKarma,
		fieldUserCreatedAt,
	}
)

func toComment(rec records.Record) *models.Comment {
	up := rec.Int(fieldCommentUpvotes)
	down := rec.Int(fieldCommentDownvotes)
	return &models.Comment{
		ID:         rec.ID(),
		Content:    rec.String(fieldCommentContent),
		PostID:     rec.Int64(fieldCommentPost),
		AuthorID:   rec.Int64(fieldCommentAuthor),
		AuthorName: rec.String(fieldCommentAuthorName),
		Upvotes:    up,
		Downvotes:  down,
		Score:      up - down,
		CreatedOn:  rec.Time(fieldCreatedOn),
	}
}

func toComments(rows []records.Record) []*models.Comment {
	out := make([]*models.Comment, 0, len(rows))
	for _, rec := range rows {
		out = append(out, toComment(rec))
	}
	return out
}

func toCommunity(rec records.Record) *models.Community {
	color := rec.String(fieldCommunityColor)
	if color == "" {
		color = models.DefaultCommunityColor
	}
	return &models.Community{
		ID:          rec.ID(),
		Key:         models.CommunityKey(rec.ID()),
		Name:        rec.String(fieldCommunityName),
		Description: rec.String(fieldCommunityDescription),
		MemberCount: rec.Int(fieldCommunityMembers),
		Color:       color,
		Category:    rec.String(fieldCommunityCategory),
		PostCount:   rec.Int(fieldCommunityPosts),
	}
}

func toCommunities(rows []records.Record) []*models.Community {
	out := make([]*models.Community, 0, len(rows))
	for _, rec := range rows {
		out = append(out, toCommunity(rec))
	}
	return out
}

func toUser(rec records.Record) *models.User {
	return &models.User{
		ID:        rec.ID(),
		Name:      rec.String(fieldName),
		Email:     rec.String(fieldUserEmail),
		Bio:       rec.String(fieldUserBio),
		Avatar:    rec.String(fieldUserAvatar),
		Karma:     rec.Int(fieldUserKarma),
		CreatedAt: rec.Time(fieldUserCreatedAt),
	}
}

func toUsers(rows []records.Record) []*models.User {
	out := make([]*models.User, 0, len(rows))
	for _, rec := range rows {
		out = append(out, toUser(rec))
	}
	return out
}
