package app

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/soocke/obb-label-go/domain/interaction"
	"github.com/soocke/obb-label-go/domain/labels"
)

var errArgs = errors.New("wrong number of arguments")

// RunScript feeds a pointer-event script to the session's machine. One
// command per line; blank lines and lines starting with '#' are ignored.
//
//	mode draw|edit|rotate
//	down|move|up X Y
//	select I | class I | angle DEG
//	set class I | set x|y|w|h|angle V
//	cancel | delete | clear
//	view W H | zoom F X Y | wheel D X Y | pan DX DY | fit
//
// Pointer coordinates are device pixels mapped through the session view,
// which is the identity until a view command sets its size. set edits the
// selected label in normalized units. RunScript stops at the first bad line
// and returns the number of commands executed.
func RunScript(s *Session, r io.Reader) (int, error) {
	sc := bufio.NewScanner(r)
	n, line := 0, 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		if err := runCommand(s, strings.Fields(text)); err != nil {
			return n, fmt.Errorf("line %d %q: %w", line, text, err)
		}
		n++
	}
	return n, sc.Err()
}

func runCommand(s *Session, f []string) error {
	m := s.Machine
	switch f[0] {
	case "mode":
		if len(f) != 2 {
			return errArgs
		}
		mode, ok := interaction.ParseMode(f[1])
		if !ok {
			return fmt.Errorf("unknown mode %q", f[1])
		}
		return m.SetMode(mode)
	case "down", "move", "up":
		p, err := point(f[1:])
		if err != nil {
			return err
		}
		p = s.View.Unproject(p)
		switch f[0] {
		case "down":
			m.PointerDown(p)
		case "move":
			m.PointerMove(p)
		default:
			m.PointerUp(p)
		}
		return nil
	case "select", "class":
		if len(f) != 2 {
			return errArgs
		}
		i, err := strconv.Atoi(f[1])
		if err != nil {
			return err
		}
		if f[0] == "select" {
			return m.Select(i)
		}
		return s.Classes.Select(i)
	case "angle":
		if len(f) != 2 {
			return errArgs
		}
		deg, err := strconv.ParseFloat(f[1], 64)
		if err != nil {
			return err
		}
		return s.SetSelectedAngle(deg)
	case "set":
		if len(f) != 3 {
			return errArgs
		}
		p, err := patch(f[1], f[2])
		if err != nil {
			return err
		}
		_, err = s.UpdateSelected(p)
		return err
	case "cancel":
		m.Cancel()
		return nil
	case "delete":
		m.DeleteSelected()
		return nil
	case "clear":
		return s.ClearLabels()
	case "view":
		p, err := point(f[1:])
		if err != nil {
			return err
		}
		s.SetViewSize(int(p.X), int(p.Y))
		return nil
	case "zoom", "wheel":
		if len(f) != 4 {
			return errArgs
		}
		v, err := strconv.ParseFloat(f[1], 64)
		if err != nil {
			return err
		}
		at, err := point(f[2:])
		if err != nil {
			return err
		}
		if f[0] == "zoom" {
			s.View.Zoom(v, at)
		} else {
			s.View.Wheel(v, at)
		}
		return nil
	case "pan":
		d, err := point(f[1:])
		if err != nil {
			return err
		}
		s.View.Pan(d)
		return nil
	case "fit":
		s.View.Reset()
		return nil
	}
	return fmt.Errorf("unknown command %q", f[0])
}

func patch(field, value string) (labels.Patch, error) {
	if field == "class" {
		id, err := strconv.Atoi(value)
		if err != nil {
			return labels.Patch{}, err
		}
		return labels.Patch{ClassID: labels.Ptr(id)}, nil
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return labels.Patch{}, err
	}
	switch field {
	case "x":
		return labels.Patch{XCenter: labels.Ptr(v)}, nil
	case "y":
		return labels.Patch{YCenter: labels.Ptr(v)}, nil
	case "w":
		return labels.Patch{Width: labels.Ptr(v)}, nil
	case "h":
		return labels.Patch{Height: labels.Ptr(v)}, nil
	case "angle":
		return labels.Patch{Angle: labels.Ptr(v)}, nil
	}
	return labels.Patch{}, fmt.Errorf("unknown field %q", field)
}

func point(f []string) (r2.Vec, error) {
	if len(f) != 2 {
		return r2.Vec{}, errArgs
	}
	x, err := strconv.ParseFloat(f[0], 64)
	if err != nil {
		return r2.Vec{}, err
	}
	y, err := strconv.ParseFloat(f[1], 64)
	if err != nil {
		return r2.Vec{}, err
	}
	return r2.Vec{X: x, Y: y}, nil
}
