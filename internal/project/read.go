package project

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/framewright/cutline/internal/compiler"
	"github.com/framewright/cutline/internal/sequencer"
	"github.com/framewright/cutline/internal/timeline"
)

// ErrNotFound is returned by Load when no project exists under the name.
var ErrNotFound = errors.New("project not found")

// List returns the names of all stored projects, most recently saved first.
func (s *Store) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name FROM projects ORDER BY updated_at DESC, name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("list projects: scan: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return names, nil
}

// Load reads a project back. Returns ErrNotFound if no project exists
// under the name.
func (s *Store) Load(ctx context.Context, name string) (*compiler.Project, error) {
	var stored string
	err := s.db.QueryRowContext(ctx,
		"SELECT name FROM projects WHERE name = ?", name).Scan(&stored)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load project %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load project %q: %w", name, err)
	}

	p := &compiler.Project{Name: stored, Assets: timeline.Library{}}

	if err := s.loadAssets(ctx, p); err != nil {
		return nil, err
	}
	if err := s.loadTracks(ctx, p); err != nil {
		return nil, err
	}
	if err := s.loadGraph(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *Store) loadAssets(ctx context.Context, p *compiler.Project) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT resource_id, name, url, kind, source_duration
		FROM assets WHERE project_name = ?
	`, p.Name)
	if err != nil {
		return fmt.Errorf("load assets: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a timeline.Asset
		var kind string
		if err := rows.Scan(&a.ResourceID, &a.Name, &a.URL, &kind, &a.SourceDuration); err != nil {
			return fmt.Errorf("load assets: scan: %w", err)
		}
		a.Kind = timeline.MediaKind(kind)
		p.Assets[a.ResourceID] = a
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load assets: %w", err)
	}

	return s.loadFilmstrips(ctx, p)
}

func (s *Store) loadFilmstrips(ctx context.Context, p *compiler.Project) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT resource_id, frame_url
		FROM filmstrips WHERE project_name = ?
		ORDER BY resource_id, frame_index
	`, p.Name)
	if err != nil {
		return fmt.Errorf("load filmstrips: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var resourceID, frame string
		if err := rows.Scan(&resourceID, &frame); err != nil {
			return fmt.Errorf("load filmstrips: scan: %w", err)
		}
		a := p.Assets[resourceID]
		a.Filmstrip = append(a.Filmstrip, frame)
		p.Assets[resourceID] = a
	}
	return rows.Err()
}

func (s *Store) loadTracks(ctx context.Context, p *compiler.Project) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, muted
		FROM tracks WHERE project_name = ?
		ORDER BY z_order
	`, p.Name)
	if err != nil {
		return fmt.Errorf("load tracks: %w", err)
	}
	defer rows.Close()

	var tracks []timeline.Track
	for rows.Next() {
		var t timeline.Track
		var kind string
		if err := rows.Scan(&t.ID, &kind, &t.Muted); err != nil {
			return fmt.Errorf("load tracks: scan: %w", err)
		}
		t.Kind = timeline.TrackKind(kind)
		tracks = append(tracks, t)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load tracks: %w", err)
	}

	p.Model = timeline.NewModel(tracks...)
	return s.loadItems(ctx, p)
}

func (s *Store) loadItems(ctx context.Context, p *compiler.Project) error {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, track_id, resource_id, start, duration, source_offset, playback_rate, volume
		FROM items WHERE project_name = ?
		ORDER BY track_id, start
	`, p.Name)
	if err != nil {
		return fmt.Errorf("load items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var it timeline.Item
		if err := rows.Scan(&it.ID, &it.TrackID, &it.ResourceID,
			&it.Start, &it.Duration, &it.SourceOffset, &it.PlaybackRate, &it.Volume); err != nil {
			return fmt.Errorf("load items: scan: %w", err)
		}
		track := p.Model.TrackByID(it.TrackID)
		if track == nil {
			return fmt.Errorf("load items: item %q references unknown track %q", it.ID, it.TrackID)
		}
		track.Items = append(track.Items, it)
	}
	return rows.Err()
}

func (s *Store) loadGraph(ctx context.Context, p *compiler.Project) error {
	var output string
	err := s.db.QueryRowContext(ctx,
		"SELECT output FROM graphs WHERE project_name = ?", p.Name).Scan(&output)
	if errors.Is(err, sql.ErrNoRows) {
		return nil // no graph stored
	}
	if err != nil {
		return fmt.Errorf("load graph: %w", err)
	}

	g := &sequencer.Graph{Output: output}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, resource_id, source_offset, duration, playback_rate, volume
		FROM graph_nodes WHERE project_name = ? ORDER BY id
	`, p.Name)
	if err != nil {
		return fmt.Errorf("load graph nodes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var n sequencer.Node
		if err := rows.Scan(&n.ID, &n.ResourceID, &n.SourceOffset, &n.Duration, &n.PlaybackRate, &n.Volume); err != nil {
			return fmt.Errorf("load graph nodes: scan: %w", err)
		}
		g.Nodes = append(g.Nodes, n)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load graph nodes: %w", err)
	}

	edgeRows, err := s.db.QueryContext(ctx, `
		SELECT from_node, to_node, socket
		FROM graph_edges WHERE project_name = ? ORDER BY from_node, to_node
	`, p.Name)
	if err != nil {
		return fmt.Errorf("load graph edges: %w", err)
	}
	defer edgeRows.Close()

	for edgeRows.Next() {
		var e sequencer.Edge
		if err := edgeRows.Scan(&e.From, &e.To, &e.Socket); err != nil {
			return fmt.Errorf("load graph edges: scan: %w", err)
		}
		g.Edges = append(g.Edges, e)
	}
	if err := edgeRows.Err(); err != nil {
		return fmt.Errorf("load graph edges: %w", err)
	}

	p.Graph = g
	return nil
}
