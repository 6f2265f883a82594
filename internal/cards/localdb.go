package cards

import (
	"database/sql"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/Balthazzahr/scry-daemon/internal/domain"
)

// Arena's raw card database encodes types and supertypes as CSV lists of
// internal ids.
const (
	supertypeLegendary = "2"
	typeCreature       = "2"
	typePlaneswalker   = "8"
)

var typeNames = map[string]string{
	"1": "Artifact", "2": "Creature", "3": "Enchantment", "4": "Instant",
	"5": "Land", "8": "Planeswalker", "10": "Sorcery", "11": "Battle",
	"13": "Vanguard", "14": "Emblem",
}

// LocalDB reads the Arena client's embedded sqlite card database. The file
// is located by glob because the client suffixes it with a content hash.
type LocalDB struct {
	globs  []string
	db     *sql.DB
	opened bool
	logger *zap.Logger
}

// NewLocalDB creates a resolver over the given database globs.
func NewLocalDB(globs []string, logger *zap.Logger) *LocalDB {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocalDB{globs: globs, logger: logger}
}

// Close releases the database handle.
func (d *LocalDB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

func (d *LocalDB) open() *sql.DB {
	if d.opened {
		return d.db
	}
	d.opened = true
	for _, g := range d.globs {
		matches, err := filepath.Glob(g)
		if err != nil || len(matches) == 0 {
			continue
		}
		db, err := sql.Open("sqlite", "file:"+matches[0]+"?mode=ro")
		if err != nil {
			d.logger.Warn("card database unusable", zap.String("path", matches[0]), zap.Error(err))
			continue
		}
		d.logger.Info("using local card database", zap.String("path", matches[0]))
		d.db = db
		return db
	}
	return nil
}

// Lookup resolves a GRPID against the local database.
func (d *LocalDB) Lookup(id int) (Card, bool) {
	db := d.open()
	if db == nil {
		return Card{}, false
	}

	const query = `
		SELECT L.Loc, C.ExpansionCode, C.Supertypes, C.Types, C.Colors, C.ColorIdentity, C.OldSchoolManaText
		FROM Cards C
		JOIN Localizations_enUS L ON C.TitleId = L.LocId
		WHERE C.GrpId = ?`

	var (
		name, setCode                       string
		supertypes, types, colors, identity sql.NullString
		manaCost                            sql.NullString
	)
	err := db.QueryRow(query, id).Scan(&name, &setCode, &supertypes, &types, &colors, &identity, &manaCost)
	if err != nil {
		if err != sql.ErrNoRows {
			d.logger.Debug("local db lookup failed", zap.Int("grpId", id), zap.Error(err))
		}
		return Card{}, false
	}

	superList := strings.Split(supertypes.String, ",")
	typeList := strings.Split(types.String, ",")
	isLegendary := containsID(superList, supertypeLegendary)
	isCommander := isLegendary && (containsID(typeList, typeCreature) || containsID(typeList, typePlaneswalker))

	var typeParts []string
	for _, t := range typeList {
		if n, ok := typeNames[strings.TrimSpace(t)]; ok {
			typeParts = append(typeParts, n)
		}
	}
	typeLine := strings.Join(typeParts, " ")
	if isLegendary {
		typeLine = strings.TrimSpace("Legendary " + typeLine)
	}

	return Card{
		ID:            id,
		Name:          name,
		Set:           setCode,
		ManaCost:      manaCost.String,
		TypeLine:      typeLine,
		Colors:        mapColorCSV(colors.String),
		ColorIdentity: mapColorCSV(identity.String),
		IsLegendary:   isLegendary,
		IsCommander:   isCommander,
	}, true
}

func containsID(list []string, id string) bool {
	for _, v := range list {
		if strings.TrimSpace(v) == id {
			return true
		}
	}
	return false
}

func mapColorCSV(csv string) []string {
	if csv == "" {
		return nil
	}
	seen := make(map[string]struct{})
	var out []string
	for _, part := range strings.Split(csv, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			continue
		}
		if c, ok := domain.ColorFromInt(n); ok {
			if _, dup := seen[c]; !dup {
				seen[c] = struct{}{}
				out = append(out, c)
			}
		}
	}
	sort.Strings(out)
	return out
}
