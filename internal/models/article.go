package models

import "time"

// Article представляет статью, созданную автором-писателем.
// Премиальные статьи доступны только клиентам с подпиской
// на премиальный тариф.
type Article struct {
	ID        int       // Идентификатор статьи
	AuthorUID string    // UID пользователя-автора (роль writer)
	Title     string    // Заголовок
	Body      string    // Текст статьи
	IsPremium bool      // Признак премиального контента
	CreatedAt time.Time // Дата создания
}

// DummyArticle используется для приёма данных статьи из JSON-запроса,
// прежде чем конвертировать их в Article.
type DummyArticle struct {
	Title     string `json:"title" validate:"required,max=200"` // Заголовок
	Body      string `json:"body" validate:"required"`          // Текст
	IsPremium bool   `json:"is_premium"`                        // Премиальный контент
}
