package motion

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Ease maps linear progress t ∈ [0, 1] to eased progress. Overshooting curves
// may leave [0, 1] in between but always return 0 at 0 and 1 at 1.
//
// Names follow the GSAP vocabulary the site's choreography is written in.
// See https://easings.net/ for the curves.
type Ease func(t float64) float64

// Linear is the identity curve ("none" / "linear").
func Linear(t float64) float64 {
	return t
}

// Power1InOut is a quadratic ease-in-out.
func Power1InOut(t float64) float64 {
	if t < 0.5 {
		return 2 * t * t
	}
	return 1 - math.Pow(-2*t+2, 2)/2
}

// Power1Out is a quadratic ease-out: f(t) = 1 - (1-t)².
func Power1Out(t float64) float64 {
	return 1 - (1-t)*(1-t)
}

// Power2Out is a cubic ease-out: f(t) = 1 - (1-t)³.
func Power2Out(t float64) float64 {
	return 1 - math.Pow(1-t, 3)
}

// Power2InOut is a cubic ease-in-out.
func Power2InOut(t float64) float64 {
	if t < 0.5 {
		return 4 * t * t * t
	}
	return 1 - math.Pow(-2*t+2, 3)/2
}

// Power3Out is a quartic ease-out: f(t) = 1 - (1-t)⁴.
func Power3Out(t float64) float64 {
	return 1 - math.Pow(1-t, 4)
}

// DefaultOvershoot is the back.out overshoot used when none is given.
const DefaultOvershoot = 1.70158

// BackOut returns an ease-out curve that overshoots the target by an amount
// controlled by overshoot before settling.
func BackOut(overshoot float64) Ease {
	return func(t float64) float64 {
		u := t - 1
		return 1 + (overshoot+1)*u*u*u + overshoot*u*u
	}
}

// ErrUnknownEase is returned by ParseEase for names it does not recognise.
var ErrUnknownEase = errors.New("unknown ease")

// ParseEase resolves an ease name such as "power2.out" or "back.out(1.7)".
// The empty string resolves to power1.out, the site's default curve.
func ParseEase(name string) (Ease, error) {
	name = strings.TrimSpace(name)
	if base, arg, ok := strings.Cut(name, "("); ok {
		if base != "back.out" || !strings.HasSuffix(arg, ")") {
			return nil, fmt.Errorf("%w: %q", ErrUnknownEase, name)
		}
		v, err := strconv.ParseFloat(strings.TrimSuffix(arg, ")"), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q: %v", ErrUnknownEase, name, err)
		}
		return BackOut(v), nil
	}

	switch name {
	case "", "power1.out":
		return Power1Out, nil
	case "none", "linear":
		return Linear, nil
	case "power1.inOut":
		return Power1InOut, nil
	case "power2.out":
		return Power2Out, nil
	case "power2.inOut":
		return Power2InOut, nil
	case "power3.out":
		return Power3Out, nil
	case "back.out":
		return BackOut(DefaultOvershoot), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEase, name)
}
