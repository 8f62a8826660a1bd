package calls

import "regexp"

// Comments matching any exclusion term are skipped entirely. These are
// technical uses of "call" that would otherwise inflate the count.
var exclusionPattern = regexp.MustCompile(`(?i)\b(` +
	`call[- ]?backs?|recall(?:s|ed|ing)?|` +
	`(?:api|function|method|system|rpc|http|webhook|ajax|sdk|rest|remote|service) calls?|` +
	`syscalls?|call ?stacks?|call ?sites?|call ?graphs?|` +
	`calls? (?:the|an?|this|that) (?:api|endpoint|function|method|url|service)|` +
	`(?:is|are|was|were|gets?|got|being) called` +
	`)\b`)

// setupPattern matches language arranging a call that may not have happened yet.
var setupPattern = regexp.MustCompile(`(?i)\b(` +
	`(?:let'?s|let us|can we|could we|shall we|should we|happy to|would you like to|want to|we can|i can) ` +
	`(?:have|do|set ?up|schedule|arrange|book|get on|jump on|hop on) (?:a|an) (?:quick |short )?` +
	`(?:call|meeting|zoom|teams call|video call|phone call)|` +
	`set ?up (?:a|the) (?:quick |short )?(?:call|meeting)|` +
	`schedul(?:e|ed|ing) (?:a|the) (?:quick |short )?(?:call|meeting)|` +
	`book(?:ed)? (?:a|the) (?:call|meeting)|` +
	`(?:hop|jump|get) on a (?:quick |short )?call|` +
	`available for a (?:quick |short )?(?:call|meeting)|` +
	`(?:meeting|calendar) invit(?:e|ation)|` +
	`invite you to a (?:call|meeting)|` +
	`join (?:the|our|a) (?:call|meeting)` +
	`)\b`)

// happenedPattern matches references to a call that already took place.
var happenedPattern = regexp.MustCompile(`(?i)\b(` +
	`following (?:up on )?(?:our|the|today'?s|yesterday'?s) (?:call|meeting|conversation|discussion)|` +
	`after (?:our|the) (?:call|meeting)|` +
	`as discussed (?:on|during|in) (?:the|our) (?:call|meeting)|` +
	`per our (?:call|meeting|conversation)|` +
	`(?:thank you|thanks) for (?:the|our|joining the|your time on the) (?:call|meeting)|` +
	`(?:meeting|call) (?:notes|summary|recap|recording)|` +
	`notes from (?:the|our) (?:call|meeting)|` +
	`spoke (?:with|to)|we spoke|` +
	`(?:had|held) (?:a|the|our) (?:quick |short )?(?:call|meeting)|` +
	`(?:on|during) (?:the|our) (?:call|meeting)` +
	`)\b`)

type platformPattern struct {
	platform string
	re       *regexp.Regexp
}

var linkPatterns = []platformPattern{
	{"Zoom", regexp.MustCompile(`https?://(?:[\w-]+\.)?zoom\.us/(?:j|my|s|w)/[\w?=.&/-]+`)},
	{"Teams", regexp.MustCompile(`https?://teams\.microsoft\.com/l/meetup-join/[^\s<>"')\]]+`)},
	{"Teams", regexp.MustCompile(`https?://teams\.live\.com/meet/[\w?=.&/-]+`)},
	{"Google Meet", regexp.MustCompile(`https?://meet\.google\.com/[a-z]{3}-[a-z]{4}-[a-z]{3}`)},
}

// durationPatterns capture "<n> <unit>" with n in group 1 and unit in group 2.
var durationPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(\d+(?:\.\d+)?)[- ]?(hours?|hrs?|minutes?|mins?)[- ](?:long )?(?:call|meeting|session|conversation)\b`),
	regexp.MustCompile(`(?i)\b(?:call|meeting|session) (?:lasted|took|ran for) (?:about |around |over )?(\d+(?:\.\d+)?) ?(hours?|hrs?|minutes?|mins?)\b`),
}
