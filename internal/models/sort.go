package models

// Listing sort keys. Recency is the default everywhere; comment-count
// ordering only applies to threads.
const (
	SortRecent   = "recent"
	SortLikes    = "likes"
	SortDislikes = "dislikes"
	SortComments = "comments"
	SortOldest   = "oldest"
)
