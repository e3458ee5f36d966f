package snapshot

import "fmt"

// layout holds the field encodings that differ between format revisions.
type layout struct {
	since      Version
	readTopic  func(r *reader, t Topics) (string, bool, error)
	writeTopic func(w *writer, topic string, t Topics) error
}

// layouts is ordered by revision. A file uses the last layout whose since
// is not newer than its version.
var layouts = []layout{
	{since: Version{Major: 1, Minor: 0}, readTopic: readLegacyTopic, writeTopic: writeLegacyTopic},
	{since: Version{Major: 1, Minor: 3}, readTopic: readNamedTopic, writeTopic: writeNamedTopic},
}

func layoutFor(v Version) (layout, error) {
	if v.Major != CurrentVersion.Major || CurrentVersion.Less(v) || v.Less(layouts[0].since) {
		return layout{}, fmt.Errorf("%w: %s", ErrUnsupportedVersion, v)
	}
	l := layouts[0]
	for _, candidate := range layouts[1:] {
		if v.Less(candidate.since) {
			break
		}
		l = candidate
	}
	return l, nil
}

func readLegacyTopic(r *reader, t Topics) (string, bool, error) {
	code, err := r.u8()
	if err != nil {
		return "", false, err
	}
	tt, ok := t.FromLegacyCode(int(code))
	return tt.Name, ok, nil
}

func writeLegacyTopic(w *writer, topic string, t Topics) error {
	tt, ok := t.Lookup(topic)
	if !ok || tt.LegacyCode < 0 || tt.LegacyCode > 0xFF {
		return fmt.Errorf("topic type %q has no legacy code", topic)
	}
	w.u8(byte(tt.LegacyCode))
	return nil
}

func readNamedTopic(r *reader, t Topics) (string, bool, error) {
	name, err := r.str()
	if err != nil {
		return "", false, err
	}
	tt, ok := t.Lookup(name)
	return tt.Name, ok, nil
}

func writeNamedTopic(w *writer, topic string, _ Topics) error {
	return w.str(topic)
}
