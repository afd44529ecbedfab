// Package repparser implements the top-level replay parsing API: it drives
// mpq, protocol, protocol/build and events to decode an MPQ archive into a
// rep.Replay.
package repparser

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"time"

	"github.com/sc2rep/screp2/events"
	"github.com/sc2rep/screp2/log"
	"github.com/sc2rep/screp2/mpq"
	"github.com/sc2rep/screp2/protocol"
	"github.com/sc2rep/screp2/protocol/build"
	"github.com/sc2rep/screp2/rep"
	"github.com/sc2rep/screp2/rep/repcore"
)

// Version is the Semver2 compatible version of the repparser package.
const Version = "v1.0.0"

var (
	// ErrNotReplayFile indicates the opened archive's user-data content
	// doesn't carry the expected SC2 replay signature.
	ErrNotReplayFile = errors.New("not a replay file")

	// ErrParsing indicates a panic was recovered while decoding; it wraps
	// no further detail by design (the original panic is logged).
	ErrParsing = errors.New("parsing")
)

// Config controls which parts of a replay ParseConfig/ParseFileConfig
// decode. The zero Config decodes only the header, details, init data and
// attributes.
type Config struct {
	// GameEvents, MessageEvents, TrackerEvents request decoding of the
	// corresponding event stream.
	GameEvents    bool
	MessageEvents bool
	TrackerEvents bool

	// Computed requests derivation of rep.Computed from the decoded
	// streams. It is computed whenever set; chat events and per-player
	// action counts are empty for streams that were not requested.
	Computed bool
}

// ParseFile opens and fully parses the named replay file.
func ParseFile(name string) (*rep.Replay, error) {
	return ParseFileConfig(name, fullConfig)
}

// ParseFileConfig opens and parses the named replay file per cfg.
func ParseFileConfig(name string, cfg Config) (*rep.Replay, error) {
	a, err := mpq.OpenFile(name)
	if err != nil {
		return nil, err
	}
	defer a.Close()
	return parseProtected(a, cfg)
}

// Parse fully parses a replay already read into memory.
func Parse(data []byte) (*rep.Replay, error) {
	return ParseConfig(data, fullConfig)
}

// ParseConfig parses a replay already read into memory, per cfg.
func ParseConfig(data []byte, cfg Config) (*rep.Replay, error) {
	a, err := mpq.Open(data)
	if err != nil {
		return nil, err
	}
	defer a.Close()
	return parseProtected(a, cfg)
}

var fullConfig = Config{GameEvents: true, MessageEvents: true, TrackerEvents: true, Computed: true}

// parseProtected wraps parse with a panic recovery boundary: a decode bug
// surfaces as ErrParsing rather than crashing the caller.
func parseProtected(a *mpq.Archive, cfg Config) (r *rep.Replay, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			buf := make([]byte, 4096)
			n := runtime.Stack(buf, false)
			log.Error("repparser: recovered from panic while parsing",
				log.F("recovered", rec), log.F("stack", string(buf[:n])))
			r, err = nil, ErrParsing
		}
	}()
	return parse(a, cfg)
}

func parse(a *mpq.Archive, cfg Config) (*rep.Replay, error) {
	userData := a.UserData()

	desc := build.Default()

	header, err := decodeHeader(userData, desc)
	if err != nil {
		return nil, fmt.Errorf("repparser: decoding header: %w", err)
	}
	if !looksLikeReplaySignature(header.Signature) {
		return nil, ErrNotReplayFile
	}
	if d := build.ForBuild(header.BaseBuild); d != nil {
		desc = d
	}

	r := &rep.Replay{Header: header}

	detailsData, err := a.FileByName("replay.details")
	if err != nil {
		return nil, fmt.Errorf("repparser: reading replay.details: %w", err)
	}
	details, err := decodeDetails(detailsData, desc)
	if err != nil {
		return nil, fmt.Errorf("repparser: decoding replay.details: %w", err)
	}
	r.Details = details

	if initData, err := a.FileByName("replay.initData"); err == nil {
		init, err := decodeInitData(initData, desc)
		if err != nil {
			return nil, fmt.Errorf("repparser: decoding replay.initData: %w", err)
		}
		r.InitData = init
	} else if !errors.Is(err, mpq.ErrFileNotFound) {
		return nil, fmt.Errorf("repparser: reading replay.initData: %w", err)
	}

	if attrData, err := a.FileByName("replay.attributes.events"); err == nil {
		attrs, err := protocol.DecodeAttributes(attrData, header.Build >= 17326)
		if err != nil {
			return nil, fmt.Errorf("repparser: decoding replay.attributes.events: %w", err)
		}
		r.Attributes = attrs
	} else if !errors.Is(err, mpq.ErrFileNotFound) {
		return nil, fmt.Errorf("repparser: reading replay.attributes.events: %w", err)
	}

	r.Diagnostics.HETBETFallbacks = a.Diagnostics.HETBETFallbacks
	r.Diagnostics.DecompressionFallbacks = a.Diagnostics.DecompressionFallbacks

	if cfg.GameEvents {
		evts, unknown, err := decodeStream(a, "replay.game.events", desc, events.GameStream)
		if err != nil {
			return nil, err
		}
		r.GameEvents, r.Diagnostics.UnknownGameEventIDs = evts, unknown
	}
	if cfg.MessageEvents {
		evts, unknown, err := decodeStream(a, "replay.message.events", desc, events.MessageStream)
		if err != nil {
			return nil, err
		}
		r.MessageEvents, r.Diagnostics.UnknownMessageEventIDs = evts, unknown
	}
	if cfg.TrackerEvents {
		evts, unknown, err := decodeStream(a, "replay.tracker.events", desc, events.TrackerStream)
		if err != nil {
			return nil, err
		}
		r.TrackerEvents, r.Diagnostics.UnknownTrackerEventIDs = evts, unknown
	}

	if cfg.Computed {
		r.Computed = computeDerived(r)
	}

	return r, nil
}

// decodeStream reads name from a and drives it fully via the events package,
// treating an absent member file as "stream not present" rather than an
// error (a replay may legitimately have empty tracker events, for example).
func decodeStream(a *mpq.Archive, name string, desc *build.Descriptor, kind events.StreamKind) ([]events.EventRecord, int, error) {
	data, err := a.FileByName(name)
	if err != nil {
		if errors.Is(err, mpq.ErrFileNotFound) {
			return nil, 0, nil
		}
		return nil, 0, fmt.Errorf("repparser: reading %s: %w", name, err)
	}

	diag := &events.Diagnostics{}
	s := events.NewStream(data, desc, kind, diag)
	recs, err := events.All(context.Background(), s)
	if err != nil {
		return nil, 0, fmt.Errorf("repparser: decoding %s: %w", name, err)
	}
	return recs, diag.UnknownEventIDs, nil
}

// looksLikeReplaySignature reports whether a decoded header signature
// identifies an SC2 replay. The signature is a decoded field value (the
// m_signature blob of the header struct), not a raw byte prefix of the
// MPQ user-data content, so this can only be checked after decodeHeader.
func looksLikeReplaySignature(sig string) bool {
	return strings.HasPrefix(sig, "StarCraft II replay")
}

// decodeHeader decodes the SC2 replay header carried in the MPQ user-data
// content.
func decodeHeader(content []byte, desc *build.Descriptor) (*rep.Header, error) {
	dec := protocol.NewVersionedDecoder(content, desc.Types)
	v, err := dec.Decode(desc.ReplayHeaderTypeID)
	if err != nil {
		return nil, err
	}
	s, ok := protocol.AsStruct(v)
	if !ok {
		return nil, fmt.Errorf("repparser: replay header decoded to a non-struct value")
	}

	ver := s.StructField("m_version")
	major := ver.Int64Field("m_major")
	minor := ver.Int64Field("m_minor")
	revision := ver.Int64Field("m_revision")
	buildNum := ver.Int64Field("m_build")
	baseBuild := ver.Int64Field("m_baseBuild")

	return &rep.Header{
		Signature:    string(s.BytesField("m_signature")),
		Version:      fmt.Sprintf("%d.%d.%d.%d", major, minor, revision, buildNum),
		BaseBuild:    int(baseBuild),
		Build:        int(buildNum),
		ElapsedLoops: repcore.Loop(s.Int64Field("m_elapsedGameLoops")),
	}, nil
}

// decodeDetails decodes the one-shot "replay.details" member file.
func decodeDetails(data []byte, desc *build.Descriptor) (*rep.Details, error) {
	dec := protocol.NewVersionedDecoder(data, desc.Types)
	v, err := dec.Decode(desc.GameDetailsTypeID)
	if err != nil {
		return nil, err
	}
	s, ok := protocol.AsStruct(v)
	if !ok {
		return nil, fmt.Errorf("repparser: game details decoded to a non-struct value")
	}

	title := string(s.BytesField("m_title"))
	d := &rep.Details{
		Title:               title,
		RawTitle:            title,
		MapFileSyncChecksum: uint32(s.Int64Field("m_mapFileSyncChecksum")),
		TimeUTC:             windowsFileTimeToTime(s.Int64Field("m_timeUTC")),
		IsBlizzardMap:       s.BoolField("m_isBlizzardMap"),
	}

	for i, pv := range s.ArrayField("m_playerList") {
		ps, ok := protocol.AsStruct(pv)
		if !ok {
			continue
		}
		name := string(ps.BytesField("m_name"))
		rawRace := string(ps.BytesField("m_race"))
		d.Players = append(d.Players, &rep.Player{
			UserID:   int64(i),
			Name:     name,
			RawName:  name,
			Race:     repcore.RaceByName(rawRace),
			RawRace:  rawRace,
			Team:     int(ps.Int64Field("m_teamId")),
			Result:   repcore.ResultByID(ps.Int64Field("m_result")),
			Observer: rawRace == "",
		})
	}

	return d, nil
}

// decodeInitData decodes the one-shot "replay.initData" member file.
func decodeInitData(data []byte, desc *build.Descriptor) (*rep.InitData, error) {
	dec := protocol.NewVersionedDecoder(data, desc.Types)
	v, err := dec.Decode(desc.ReplayInitDataTypeID)
	if err != nil {
		return nil, err
	}
	s, ok := protocol.AsStruct(v)
	if !ok {
		return nil, fmt.Errorf("repparser: init data decoded to a non-struct value")
	}

	lobby := s.StructField("m_syncLobbyState")

	ls := &rep.LobbyState{MaxUsers: int(lobby.Int64Field("m_maxUsers"))}
	for _, uv := range lobby.ArrayField("m_userInitialData") {
		us, ok := protocol.AsStruct(uv)
		if !ok {
			continue
		}
		ls.Users = append(ls.Users, &rep.InitDataUser{
			Name:               string(us.BytesField("m_name")),
			CombinedRaceLevels: us.Int64Field("m_combinedRaceLevels"),
			HighestLeague:      int(us.Int64Field("m_highestLeague")),
		})
	}

	return &rep.InitData{LobbyState: ls}, nil
}

// windowsFileTimeToTime converts a Windows FILETIME (100ns ticks since
// 1601-01-01 UTC, the unit SC2 replays store m_timeUTC in) to a time.Time.
func windowsFileTimeToTime(ft int64) time.Time {
	const epochDiff = 116444736000000000 // 100ns ticks between 1601-01-01 and 1970-01-01
	if ft <= 0 {
		return time.Time{}
	}
	return time.Unix(0, (ft-epochDiff)*100).UTC()
}

// computeDerived builds rep.Computed from the already-decoded parts of r.
func computeDerived(r *rep.Replay) *rep.Computed {
	c := &rep.Computed{}

	for _, e := range r.MessageEvents {
		if e.EventName == "Chat" {
			c.ChatEvents = append(c.ChatEvents, e)
		}
	}

	c.WinnerTeam = winnerTeam(r.Details)

	if r.Details != nil {
		byUser := make(map[int64][]events.EventRecord)
		for _, e := range r.GameEvents {
			if e.UserID != nil {
				byUser[*e.UserID] = append(byUser[*e.UserID], e)
			}
		}

		minutes := r.Header.Duration().Minutes()
		for _, p := range r.Details.Players {
			evts := byUser[p.UserID]
			pd := &rep.PlayerDesc{UserID: p.UserID, ActionCount: len(evts)}
			for i := range evts {
				if k := rep.EventIneffKind(evts, i); k == repcore.IneffKindEffective {
					pd.EffectiveActionCount++
				} else {
					if pd.IneffectiveByKind == nil {
						pd.IneffectiveByKind = make(map[repcore.IneffKind]int)
					}
					pd.IneffectiveByKind[k]++
				}
			}
			if minutes > 0 {
				pd.EAPM = float64(pd.EffectiveActionCount) / minutes
			}
			c.PlayerDescs = append(c.PlayerDescs, pd)
		}
	}

	return c
}

// winnerTeam derives the single team all Victory results agree on, or 0 if
// none or more than one team has a Victory result.
func winnerTeam(d *rep.Details) int {
	if d == nil {
		return 0
	}
	teams := map[int]bool{}
	for _, p := range d.Players {
		if p.Result == repcore.ResultVictory {
			teams[p.Team] = true
		}
	}
	if len(teams) != 1 {
		return 0
	}
	for t := range teams {
		return t
	}
	return 0
}
