// Package catalog loads habit catalog seed files and upserts them with
// reference embeddings.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"habitlog-service/internal/domain/entity"
	"habitlog-service/internal/domain/repository"
	"habitlog-service/internal/embedding"

	"github.com/google/uuid"
	"go.uber.org/config"
)

// Entry is one habit of a seed file
type Entry struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	// References are example captions of valid evidence. The description is
	// used when none are given.
	References []string `yaml:"references"`
}

type seedFile struct {
	Habits []Entry `yaml:"habits"`
}

// LoadFile reads a YAML seed file
func LoadFile(path string) ([]Entry, error) {
	provider, err := config.NewYAML(config.File(path))
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var file seedFile
	if err := provider.Get(config.Root).Populate(&file); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	var errs []error
	seen := make(map[string]bool, len(file.Habits))
	for i, e := range file.Habits {
		name := strings.TrimSpace(e.Name)
		switch {
		case name == "":
			errs = append(errs, fmt.Errorf("habits[%d]: name is required", i))
		case seen[name]:
			errs = append(errs, fmt.Errorf("habits[%d]: duplicate name %q", i, name))
		}
		seen[name] = true
		file.Habits[i].Name = name
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return file.Habits, nil
}

// Seed embeds every entry's references and upserts the habit by name
func Seed(ctx context.Context, habits repository.HabitRepository, encoder embedding.Encoder, entries []Entry) ([]*entity.Habit, error) {
	seeded := make([]*entity.Habit, 0, len(entries))

	for _, e := range entries {
		refs := e.References
		if len(refs) == 0 {
			refs = []string{e.Description}
		}

		embeddings := make([][]float64, 0, len(refs))
		for _, ref := range refs {
			vec, err := encoder.Encode(ctx, ref)
			if err != nil {
				return seeded, fmt.Errorf("failed to embed %q: %w", e.Name, err)
			}
			embeddings = append(embeddings, vec)
		}

		habit := &entity.Habit{
			ID:          uuid.New(),
			Name:        e.Name,
			Description: e.Description,
			Embeddings:  embeddings,
		}
		if err := habits.Upsert(ctx, habit); err != nil {
			return seeded, fmt.Errorf("failed to upsert %q: %w", e.Name, err)
		}
		seeded = append(seeded, habit)
	}

	return seeded, nil
}
