package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pitchforge/internal/model"
)

// 固定的存储键
const (
	KeySlides    = "pitchforge_slides"
	KeyIdea      = "pitchforge_idea"
	KeyUseCase   = "pitchforge_usecase"
	KeyTheme     = "pitchforge_theme"
	KeyDeckID    = "pitchforge_deck_id"
	KeyCreatedAt = "pitchforge_created_at"
)

// SaveDeck 替换会话中的演示文稿。支持 Replacer 的后端原子写入，
// 其余后端清空后逐项写入，slides 最后写入
func SaveDeck(ctx context.Context, s Store, ns string, d *model.Deck) error {
	slides, err := json.Marshal(d.Slides)
	if err != nil {
		return fmt.Errorf("marshal slides: %w", err)
	}

	values := []struct{ key, value string }{
		{KeyIdea, d.Idea},
		{KeyUseCase, string(d.UseCase)},
		{KeyTheme, string(d.Theme)},
		{KeyDeckID, d.ID},
		{KeyCreatedAt, d.CreatedAt.UTC().Format(time.RFC3339Nano)},
		{KeySlides, string(slides)},
	}

	if r, ok := s.(Replacer); ok {
		m := make(map[string]string, len(values))
		for _, v := range values {
			m[v.key] = v.value
		}
		if err := r.Replace(ctx, ns, m); err != nil {
			return fmt.Errorf("save session %s: %w", ns, err)
		}
		return nil
	}

	if err := s.Delete(ctx, ns); err != nil {
		return fmt.Errorf("clear session %s: %w", ns, err)
	}
	for _, v := range values {
		if err := s.Set(ctx, ns, v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// LoadDeck 读取会话中的幻灯片和参数，slides 缺失时返回 ErrNotFound
func LoadDeck(ctx context.Context, s Store, ns string) (*model.Deck, error) {
	raw, err := s.Get(ctx, ns, KeySlides)
	if err != nil {
		return nil, err
	}
	d := &model.Deck{}
	if err := json.Unmarshal([]byte(raw), &d.Slides); err != nil {
		return nil, fmt.Errorf("unmarshal slides: %w", err)
	}

	d.Idea, err = getOptional(ctx, s, ns, KeyIdea)
	if err != nil {
		return nil, err
	}
	useCase, err := getOptional(ctx, s, ns, KeyUseCase)
	if err != nil {
		return nil, err
	}
	theme, err := getOptional(ctx, s, ns, KeyTheme)
	if err != nil {
		return nil, err
	}
	d.UseCase = model.UseCase(useCase)
	d.Theme = model.Theme(theme)

	d.ID, err = getOptional(ctx, s, ns, KeyDeckID)
	if err != nil {
		return nil, err
	}
	created, err := getOptional(ctx, s, ns, KeyCreatedAt)
	if err != nil {
		return nil, err
	}
	if created != "" {
		if t, perr := time.Parse(time.RFC3339Nano, created); perr == nil {
			d.CreatedAt = t
		}
	}
	return d, nil
}

func getOptional(ctx context.Context, s Store, ns, key string) (string, error) {
	v, err := s.Get(ctx, ns, key)
	if errors.Is(err, ErrNotFound) {
		return "", nil
	}
	return v, err
}
