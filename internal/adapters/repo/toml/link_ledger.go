package toml

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"sync"

	"github.com/bnema/intakebot/internal/domain"
	"github.com/bnema/intakebot/internal/ports"
	"github.com/spf13/viper"
)

const (
	LinksPathKey  = "links.path"
	linksFileName = "links.toml"
)

type LinkLedger struct {
	path    string
	mu      sync.RWMutex
	entries map[string]domain.LinkEntry
}

var _ ports.LinkLedger = (*LinkLedger)(nil)

func NewLinkLedger(cfg *viper.Viper) (*LinkLedger, error) {
	path, err := resolvePath(cfg, LinksPathKey, linksFileName)
	if err != nil {
		return nil, err
	}

	var file linksFileSchema
	if err := readTOMLFile(path, "links", &file); err != nil {
		return nil, err
	}

	entries := make(map[string]domain.LinkEntry, len(file.Links))
	for _, entry := range file.Links {
		link := domain.NormalizeLink(entry.Link)
		at, err := parseTime(entry.LastSubmittedAt)
		if err != nil {
			return nil, fmt.Errorf("decode links file %s: link %s: %w", path, link, err)
		}
		entries[link] = domain.LinkEntry{Link: link, LastSubmittedAt: at}
	}

	return &LinkLedger{path: path, entries: entries}, nil
}

func (l *LinkLedger) Get(ctx context.Context, link string) (domain.LinkEntry, error) {
	if err := ctx.Err(); err != nil {
		return domain.LinkEntry{}, err
	}

	l.mu.RLock()
	defer l.mu.RUnlock()

	entry, ok := l.entries[domain.NormalizeLink(link)]
	if !ok {
		return domain.LinkEntry{}, domain.ErrLinkNotFound
	}

	return entry, nil
}

func (l *LinkLedger) Save(ctx context.Context, entry domain.LinkEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entry.Link = domain.NormalizeLink(entry.Link)

	l.mu.Lock()
	defer l.mu.Unlock()

	next := maps.Clone(l.entries)
	next[entry.Link] = entry

	return l.commit(next)
}

func (l *LinkLedger) Delete(ctx context.Context, link string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	link = domain.NormalizeLink(link)

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.entries[link]; !ok {
		return nil
	}

	next := maps.Clone(l.entries)
	delete(next, link)

	return l.commit(next)
}

func (l *LinkLedger) commit(next map[string]domain.LinkEntry) error {
	links := make([]string, 0, len(next))
	for link := range next {
		links = append(links, link)
	}
	sort.Strings(links)

	file := linksFileSchema{}
	for _, link := range links {
		file.Links = append(file.Links, linkSchema{
			Link:            link,
			LastSubmittedAt: formatTime(next[link].LastSubmittedAt),
		})
	}

	if err := writeTOMLFile(l.path, "links", &file); err != nil {
		return err
	}

	l.entries = next
	return nil
}
