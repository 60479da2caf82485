package project

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/framewright/cutline/internal/compiler"
)

// Save persists a project, replacing any existing rows under the same
// name. The replacement happens in a single transaction so readers never
// observe a half-written project.
func (s *Store) Save(ctx context.Context, p *compiler.Project) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("save project: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	_, err = tx.ExecContext(ctx, `
		INSERT INTO projects (name) VALUES (?)
		ON CONFLICT(name) DO UPDATE SET updated_at = datetime('now')
	`, p.Name)
	if err != nil {
		return fmt.Errorf("save project: upsert project: %w", err)
	}

	// Child rows are replaced wholesale. ON DELETE CASCADE clears
	// filmstrips, items, and graph members along with their parents.
	for _, stmt := range []string{
		"DELETE FROM assets WHERE project_name = ?",
		"DELETE FROM tracks WHERE project_name = ?",
		"DELETE FROM graphs WHERE project_name = ?",
	} {
		if _, err := tx.ExecContext(ctx, stmt, p.Name); err != nil {
			return fmt.Errorf("save project: clear rows: %w", err)
		}
	}

	if err := saveAssets(ctx, tx, p); err != nil {
		return err
	}
	if err := saveTracks(ctx, tx, p); err != nil {
		return err
	}
	if p.Graph != nil {
		if err := saveGraph(ctx, tx, p); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("save project: commit: %w", err)
	}
	return nil
}

func saveAssets(ctx context.Context, tx *sql.Tx, p *compiler.Project) error {
	for _, a := range p.Assets {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO assets
			(project_name, resource_id, name, url, kind, source_duration)
			VALUES (?, ?, ?, ?, ?, ?)
		`, p.Name, a.ResourceID, a.Name, a.URL, string(a.Kind), a.SourceDuration)
		if err != nil {
			return fmt.Errorf("save project: insert asset %q: %w", a.ResourceID, err)
		}

		for i, frame := range a.Filmstrip {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO filmstrips
				(project_name, resource_id, frame_index, frame_url)
				VALUES (?, ?, ?, ?)
			`, p.Name, a.ResourceID, i, frame)
			if err != nil {
				return fmt.Errorf("save project: insert filmstrip %q: %w", a.ResourceID, err)
			}
		}
	}
	return nil
}

func saveTracks(ctx context.Context, tx *sql.Tx, p *compiler.Project) error {
	for z, track := range p.Model.Tracks() {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO tracks (project_name, id, kind, muted, z_order)
			VALUES (?, ?, ?, ?, ?)
		`, p.Name, track.ID, string(track.Kind), track.Muted, z)
		if err != nil {
			return fmt.Errorf("save project: insert track %q: %w", track.ID, err)
		}

		for _, it := range track.Items {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO items
				(project_name, id, track_id, resource_id, start, duration, source_offset, playback_rate, volume)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			`, p.Name, it.ID, track.ID, it.ResourceID,
				it.Start, it.Duration, it.SourceOffset, it.PlaybackRate, it.Volume)
			if err != nil {
				return fmt.Errorf("save project: insert item %q: %w", it.ID, err)
			}
		}
	}
	return nil
}

func saveGraph(ctx context.Context, tx *sql.Tx, p *compiler.Project) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO graphs (project_name, output) VALUES (?, ?)
	`, p.Name, p.Graph.Output)
	if err != nil {
		return fmt.Errorf("save project: insert graph: %w", err)
	}

	for _, n := range p.Graph.Nodes {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO graph_nodes
			(project_name, id, resource_id, source_offset, duration, playback_rate, volume)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, p.Name, n.ID, n.ResourceID, n.SourceOffset, n.Duration, n.PlaybackRate, n.Volume)
		if err != nil {
			return fmt.Errorf("save project: insert node %q: %w", n.ID, err)
		}
	}

	for _, e := range p.Graph.Edges {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO graph_edges (project_name, from_node, to_node, socket)
			VALUES (?, ?, ?, ?)
		`, p.Name, e.From, e.To, e.Socket)
		if err != nil {
			return fmt.Errorf("save project: insert edge %s->%s: %w", e.From, e.To, err)
		}
	}
	return nil
}

// Delete removes a project and all its rows. Deleting an absent project
// is not an error.
func (s *Store) Delete(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM projects WHERE name = ?", name); err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}
