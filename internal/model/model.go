package model

import "time"

// Системный автор сгенерированных статей
const SystemAuthor = "TrendWise AI"

// Тема из источников трендов
type TrendingTopic struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	URL         string `json:"url,omitempty"`
	Category    string `json:"category,omitempty"`
}

// Черновик статьи, который вернула языковая модель. Еще не нормализован.
type Draft struct {
	Title           string   `json:"title"`
	Slug            string   `json:"slug"`
	MetaDescription string   `json:"metaDescription"`
	Content         string   `json:"content"`
	OgImage         string   `json:"ogImage"`
	Tags            []string `json:"tags"`
}

// Медиа, прикрепленные к статье
type Media struct {
	Images []string `json:"images"`
	Videos []string `json:"videos"`
	Tweets []string `json:"tweets"`
}

// Статья, которую мы храним и отдаем наружу
type Article struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Slug            string `json:"slug"`
	MetaDescription string `json:"metaDescription"`
	// HTML тело статьи
	Content string   `json:"content"`
	OgImage string   `json:"ogImage"`
	Media   Media    `json:"media"`
	Tags    []string `json:"tags"`
	Author  string   `json:"author"`
	// Время публикации, по нему сортируем и считаем свежесть
	PublishedAt time.Time `json:"publishedAt"`
	// Время публикации в телеграм канале
	PostedAt  *time.Time `json:"-"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

// Снимок автора комментария на момент публикации
type CommentAuthor struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Image string `json:"image,omitempty"`
}

type Comment struct {
	ID        string        `json:"id"`
	Content   string        `json:"content"`
	Author    CommentAuthor `json:"author"`
	ArticleID string        `json:"articleId"`
	// Пустой для гостевых комментариев
	UserID    string    `json:"userId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Аутентифицированный пользователь
type Identity struct {
	UserID string
	Name   string
	Email  string
	Image  string
}
