package crud

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// A ServicesConfig is any function that takes in a pointer to a Services
// object and returns an error. It's basically just wrapping the constructor
// method of any given crud service. It exists to be able to easily create
// the crud services using functional options in main.go.
type ServicesConfig func(*Services) error

// Services is a container object holding pointers to all the crud services.
// The crud services all share the database connection provided by Services.
type Services struct {
	db      *gorm.DB
	Photo   *PhotoService
	Song    *SongService
	Like    *LikeService
	Comment *CommentService
	Message *MessageService
	Event   *EventService
	Game    *GameService
}

// NewServices returns a new Services object, containing any crud services
// it's told to create by one of the passed in ServicesConfig functions.
// It shares the passed in database connection with any crud service it creates.
func NewServices(db *gorm.DB, cfgs ...ServicesConfig) (*Services, error) {
	s := Services{
		db: db,
	}
	for _, cfg := range cfgs {
		if err := cfg(&s); err != nil {
			return nil, err
		}
	}
	return &s, nil
}

// WithPhoto wraps the constructor of PhotoService, NewPhotoService.
// rank may be nil when no redis is configured.
func WithPhoto(rank *redis.Client) ServicesConfig {
	return func(s *Services) error {
		s.Photo = NewPhotoService(s.db, rank)
		return nil
	}
}

// WithSong wraps the constructor of SongService, NewSongService.
// rank may be nil when no redis is configured.
func WithSong(rank *redis.Client) ServicesConfig {
	return func(s *Services) error {
		s.Song = NewSongService(s.db, rank)
		return nil
	}
}

// WithLike wraps the constructor of LikeService, NewLikeService.
// rank may be nil when no redis is configured.
func WithLike(rank *redis.Client) ServicesConfig {
	return func(s *Services) error {
		s.Like = NewLikeService(s.db, rank)
		return nil
	}
}

// WithComment wraps the constructor of CommentService, NewCommentService.
func WithComment() ServicesConfig {
	return func(s *Services) error {
		s.Comment = NewCommentService(s.db)
		return nil
	}
}

// WithMessage wraps the constructor of MessageService, NewMessageService.
func WithMessage() ServicesConfig {
	return func(s *Services) error {
		s.Message = NewMessageService(s.db)
		return nil
	}
}

// WithEvent wraps the constructor of EventService, NewEventService.
func WithEvent() ServicesConfig {
	return func(s *Services) error {
		s.Event = NewEventService(s.db)
		return nil
	}
}

// WithGame wraps the constructor of GameService, NewGameService.
func WithGame() ServicesConfig {
	return func(s *Services) error {
		s.Game = NewGameService(s.db)
		return nil
	}
}
