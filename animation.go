package tetradae

import (
	"strings"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Interpolation is how an animation channel goes from one keyframe to the next.
type Interpolation int

const (
	InterpolationLinear Interpolation = iota
	InterpolationStep                 // The keyframe's values hold until the next keyframe
	InterpolationBezier               // Smoothed; tangents aren't used
	InterpolationHermite              // Smoothed; tangents aren't used
)

// ParseInterpolation returns the Interpolation for a COLLADA INTERPOLATION name; unknown names are linear.
func ParseInterpolation(name string) Interpolation {
	switch strings.ToUpper(name) {
	case "STEP":
		return InterpolationStep
	case "BEZIER":
		return InterpolationBezier
	case "HERMITE":
		return InterpolationHermite
	}
	return InterpolationLinear
}

// Keyframe is the value of an animation channel at a point in time.
type Keyframe struct {
	Time          float32
	Values        []float32
	Interpolation Interpolation
}

// AnimationChannel animates one transform step of one node. It targets a node by the node's document id (or
// name), the step by its SID, and optionally a single value of the step by member (see TransformStep.MemberIndex).
type AnimationChannel struct {
	Target    string
	NodeID    string
	SID       string
	Member    string
	Keyframes []Keyframe
}

// ParseTarget splits an animation target like "Cube/location.X" or "Cube/transform(3)(0)" into the node id, the
// step SID, and the member.
func ParseTarget(target string) (nodeID, sid, member string) {

	nodeID, rest, found := strings.Cut(target, "/")
	if !found {
		return target, "", ""
	}

	if i := strings.IndexAny(rest, ".("); i >= 0 {
		sid, member = rest[:i], strings.TrimPrefix(rest[i:], ".")
	} else {
		sid = rest
	}

	return nodeID, sid, member

}

// NewAnimationChannel returns a new, empty AnimationChannel for the target.
func NewAnimationChannel(target string) *AnimationChannel {
	channel := &AnimationChannel{Target: target}
	channel.NodeID, channel.SID, channel.Member = ParseTarget(target)
	return channel
}

// AddKeyframe adds a keyframe; keyframes must be added in time order.
func (channel *AnimationChannel) AddKeyframe(time float32, interpolation Interpolation, values ...float32) {
	channel.Keyframes = append(channel.Keyframes, Keyframe{
		Time:          time,
		Values:        append([]float32(nil), values...),
		Interpolation: interpolation,
	})
}

// Length returns the time of the last keyframe.
func (channel *AnimationChannel) Length() float32 {
	if len(channel.Keyframes) == 0 {
		return 0
	}
	return channel.Keyframes[len(channel.Keyframes)-1].Time
}

// Sample returns the channel's values at the time given. Before the first keyframe and after the last one, the
// values of those keyframes hold.
func (channel *AnimationChannel) Sample(time float32) []float32 {

	keys := channel.Keyframes

	if len(keys) == 0 {
		return nil
	}

	if first := keys[0]; time <= first.Time {
		return first.Values
	} else if last := keys[len(keys)-1]; time >= last.Time {
		return last.Values
	}

	next := 1
	for keys[next].Time <= time {
		next++
	}

	from := keys[next-1]
	to := keys[next]

	if from.Time == time || from.Interpolation == InterpolationStep {
		return from.Values
	}

	easing := ease.Linear
	if from.Interpolation == InterpolationBezier || from.Interpolation == InterpolationHermite {
		easing = ease.InOutCubic
	}

	out := make([]float32, len(from.Values))
	for i := range out {
		if i >= len(to.Values) {
			out[i] = from.Values[i]
			continue
		}
		out[i], _ = gween.New(from.Values[i], to.Values[i], to.Time-from.Time, easing).Set(time - from.Time)
	}

	return out

}

// Animation is a set of channels played together.
type Animation struct {
	Name     string
	Channels []*AnimationChannel
	Length   float32 // Length of the animation in seconds
}

// NewAnimation returns a new, empty Animation.
func NewAnimation(name string) *Animation {
	return &Animation{Name: name}
}

// AddChannel adds a channel, extending the Animation's Length to the channel's last keyframe.
func (animation *Animation) AddChannel(channel *AnimationChannel) {
	animation.Channels = append(animation.Channels, channel)
	if length := channel.Length(); length > animation.Length {
		animation.Length = length
	}
}

const (
	FinishModeLoop = iota
	FinishModePingPong
	FinishModeStop
)

type channelBinding struct {
	node      *Node
	stepIndex int
	member    int
}

// AnimationPlayer plays an Animation on the tree below (and including) its root node.
type AnimationPlayer struct {
	RootNode        *Node
	ChannelsUpdated bool
	Animation       *Animation
	Playhead        float32
	PlaySpeed       float32
	Playing         bool
	FinishMode      int
	OnFinish        func()

	bindings map[*AnimationChannel]channelBinding
}

// NewAnimationPlayer returns a new AnimationPlayer for the tree rooted at node.
func NewAnimationPlayer(node *Node) *AnimationPlayer {
	return &AnimationPlayer{
		RootNode:   node,
		PlaySpeed:  1,
		FinishMode: FinishModeStop,
	}
}

// Play starts playing the animation from the beginning, unless it's already playing.
func (ap *AnimationPlayer) Play(animation *Animation) {
	if ap.Animation != animation || !ap.Playing {
		ap.Animation = animation
		ap.Playhead = 0
		ap.Playing = true
		ap.ChannelsUpdated = false
	}
}

// Stop stops playback, leaving the animated values where they are.
func (ap *AnimationPlayer) Stop() {
	ap.Playing = false
}

func matchesChannel(node *Node, channel *AnimationChannel) bool {
	if node.props.Has("dae.id") {
		id, _ := node.props.Get("dae.id").AsString()
		return id == channel.NodeID
	}
	return node.name == channel.NodeID
}

// AssignChannels binds the Animation's channels to the transform steps of the nodes they target. Channels whose
// targets can't be found are logged and skipped.
func (ap *AnimationPlayer) AssignChannels() {

	ap.bindings = map[*AnimationChannel]channelBinding{}
	ap.ChannelsUpdated = true

	if ap.Animation == nil {
		return
	}

	nodes := append([]*Node{ap.RootNode}, ap.RootNode.ChildrenRecursive()...)

	for _, channel := range ap.Animation.Channels {

		bound := false

		for _, node := range nodes {

			if !matchesChannel(node, channel) {
				continue
			}

			for i, step := range node.steps {
				if step.SID != channel.SID {
					continue
				}
				if member, ok := step.MemberIndex(channel.Member); ok {
					ap.bindings[channel] = channelBinding{node: node, stepIndex: i, member: member}
					bound = true
				}
				break
			}

			break

		}

		if !bound {
			Logger().Warn("animation channel target not found", "animation", ap.Animation.Name, "target", channel.Target, "root", ap.RootNode.Name())
		}

	}

}

func (ap *AnimationPlayer) apply() {
	for _, channel := range ap.Animation.Channels {
		if binding, ok := ap.bindings[channel]; ok {
			binding.node.setStepValue(binding.stepIndex, binding.member, channel.Sample(ap.Playhead))
		}
	}
}

// Update applies the animation at the current playhead and advances it by dt seconds. It returns true if the player
// changed any node.
func (ap *AnimationPlayer) Update(dt float32) bool {

	if !ap.Playing || ap.Animation == nil {
		return false
	}

	if !ap.ChannelsUpdated {
		ap.AssignChannels()
	}

	ap.apply()

	ap.Playhead += dt * ap.PlaySpeed

	length := ap.Animation.Length

	switch ap.FinishMode {

	case FinishModeLoop:
		if ap.Playhead > length || ap.Playhead < 0 {
			for length > 0 && ap.Playhead > length {
				ap.Playhead -= length
			}
			for length > 0 && ap.Playhead < 0 {
				ap.Playhead += length
			}
			if length <= 0 {
				ap.Playhead = 0
			}
			if ap.OnFinish != nil {
				ap.OnFinish()
			}
		}

	case FinishModePingPong:
		if ap.Playhead > length || ap.Playhead < 0 {
			if ap.Playhead > length {
				ap.Playhead = length
			} else {
				ap.Playhead = 0
				if ap.OnFinish != nil {
					ap.OnFinish()
				}
			}
			ap.PlaySpeed *= -1
		}

	case FinishModeStop:
		if ap.Playhead > length || ap.Playhead < 0 {
			if ap.Playhead > length {
				ap.Playhead = length
			} else {
				ap.Playhead = 0
			}
			ap.apply()
			if ap.OnFinish != nil {
				ap.OnFinish()
			}
			ap.Playing = false
		}

	}

	return true

}
