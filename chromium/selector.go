package chromium

import (
	"strconv"
	"strings"
)

// Kinds of selector steps.
const (
	stepCSS    = "css"
	stepRole   = "role"
	stepText   = "text"
	stepLabel  = "label"
	stepTestID = "testid"
	stepNth    = "nth"
	stepFilter = "filter"
	stepAnd    = "and"
	stepOr     = "or"
)

// step is one link of a locator chain. Steps are sent to the page as JSON
// and evaluated by resolverJS.
type step struct {
	Kind       string `json:"kind"`
	Value      string `json:"value,omitempty"`
	Name       string `json:"name,omitempty"`
	Exact      bool   `json:"exact,omitempty"`
	Index      int    `json:"index"`
	HasText    string `json:"hasText,omitempty"`
	HasNotText string `json:"hasNotText,omitempty"`
	Has        []step `json:"has,omitempty"`
	HasNot     []step `json:"hasNot,omitempty"`
	Other      []step `json:"other,omitempty"`
}

// render returns the chain in the form of the locator calls that built it,
// such as getByRole('button', { name: 'Senden' }).first().
func render(steps []step) string {
	parts := make([]string, 0, len(steps))
	for _, s := range steps {
		parts = append(parts, s.String())
	}
	return strings.Join(parts, ".")
}

func (s step) String() string {
	switch s.Kind {
	case stepCSS:
		return "locator(" + quote(s.Value) + ")"
	case stepRole:
		var opts []string
		if s.Name != "" {
			opts = append(opts, "name: "+quote(s.Name))
		}
		if s.Exact {
			opts = append(opts, "exact: true")
		}
		return "getByRole(" + quote(s.Value) + object(opts) + ")"
	case stepText:
		if s.Exact {
			return "getByText(" + quote(s.Value) + ", { exact: true })"
		}
		return "getByText(" + quote(s.Value) + ")"
	case stepLabel:
		return "getByLabel(" + quote(s.Value) + ")"
	case stepTestID:
		return "getByTestId(" + quote(s.Value) + ")"
	case stepNth:
		switch s.Index {
		case 0:
			return "first()"
		case -1:
			return "last()"
		default:
			return "nth(" + strconv.Itoa(s.Index) + ")"
		}
	case stepFilter:
		var opts []string
		if s.HasText != "" {
			opts = append(opts, "hasText: "+quote(s.HasText))
		}
		if s.HasNotText != "" {
			opts = append(opts, "hasNotText: "+quote(s.HasNotText))
		}
		if len(s.Has) > 0 {
			opts = append(opts, "has: "+render(s.Has))
		}
		if len(s.HasNot) > 0 {
			opts = append(opts, "hasNot: "+render(s.HasNot))
		}
		return "filter({ " + strings.Join(opts, ", ") + " })"
	case stepAnd:
		return "and(" + render(s.Other) + ")"
	case stepOr:
		return "or(" + render(s.Other) + ")"
	default:
		return s.Kind + "(" + quote(s.Value) + ")"
	}
}

func object(fields []string) string {
	if len(fields) == 0 {
		return ""
	}
	return ", { " + strings.Join(fields, ", ") + " }"
}

func quote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return "'" + strings.ReplaceAll(s, "'", `\'`) + "'"
}

// resolverJS returns the elements matched by a step chain, in document order.
const resolverJS = `(steps) => {
	const norm = (s) => (s || '').replace(/\s+/g, ' ').trim();
	const matches = (have, want, exact) => exact
		? norm(have) === norm(want)
		: norm(have).toLowerCase().includes(norm(want).toLowerCase());
	const textOf = (el) => el.innerText !== undefined ? el.innerText : el.textContent;

	const implicitRole = (el) => {
		const tag = el.tagName.toLowerCase();
		const type = (el.getAttribute('type') || 'text').toLowerCase();
		switch (tag) {
		case 'a': case 'area': return el.hasAttribute('href') ? 'link' : '';
		case 'button': return 'button';
		case 'h1': case 'h2': case 'h3': case 'h4': case 'h5': case 'h6': return 'heading';
		case 'input':
			if (['button', 'submit', 'reset', 'image'].includes(type)) return 'button';
			if (type === 'checkbox') return 'checkbox';
			if (type === 'radio') return 'radio';
			if (type === 'range') return 'slider';
			if (type === 'search') return 'searchbox';
			if (type === 'hidden') return '';
			return 'textbox';
		case 'textarea': return 'textbox';
		case 'select': return el.multiple || el.size > 1 ? 'listbox' : 'combobox';
		case 'option': return 'option';
		case 'ul': case 'ol': return 'list';
		case 'li': return 'listitem';
		case 'table': return 'table';
		case 'tr': return 'row';
		case 'td': return 'cell';
		case 'th': return 'columnheader';
		case 'img': return el.getAttribute('alt') === '' ? 'presentation' : 'img';
		case 'nav': return 'navigation';
		case 'main': return 'main';
		case 'dialog': return 'dialog';
		case 'form': return 'form';
		}
		return '';
	};
	const roleOf = (el) => (el.getAttribute('role') || '').split(/\s+/)[0] || implicitRole(el);

	const labelsOf = (el) => {
		const out = [];
		const by = el.getAttribute('aria-labelledby');
		if (by) {
			for (const id of by.split(/\s+/)) {
				const l = document.getElementById(id);
				if (l) out.push(l.textContent);
			}
		}
		const aria = el.getAttribute('aria-label');
		if (aria) out.push(aria);
		if (el.labels) {
			for (const l of el.labels) out.push(textOf(l));
		}
		return out;
	};
	const nameOf = (el) => {
		const labels = labelsOf(el);
		if (labels.length) return labels.join(' ');
		if (el.tagName === 'INPUT' && ['button', 'submit', 'reset'].includes(el.type)) return el.value;
		if (el.tagName === 'IMG') return el.getAttribute('alt') || '';
		return textOf(el) || el.getAttribute('title') || '';
	};

	const descendants = (roots, pred) => {
		const out = [];
		for (const r of roots) {
			for (const el of r.querySelectorAll('*')) {
				if (pred(el)) out.push(el);
			}
		}
		return out;
	};
	const unique = (els) => {
		const seen = new Set();
		return els.filter((el) => !seen.has(el) && seen.add(el));
	};
	const byDocument = (a, b) => a === b ? 0 : (a.compareDocumentPosition(b) & Node.DOCUMENT_POSITION_FOLLOWING ? -1 : 1);

	const resolve = (chain, roots) => {
		let set = roots;
		let scoped = false;
		for (const s of chain) {
			switch (s.kind) {
			case 'css':
				set = unique(set.flatMap((r) => Array.from(r.querySelectorAll(s.value))));
				break;
			case 'role':
				set = unique(descendants(set, (el) => roleOf(el) === s.value &&
					(!s.name || matches(nameOf(el), s.name, s.exact))));
				break;
			case 'text': {
				const hit = (el) => matches(textOf(el), s.value, s.exact);
				set = unique(descendants(set, (el) => hit(el) && !Array.from(el.children).some(hit)));
				break;
			}
			case 'label':
				set = unique(descendants(set, (el) => labelsOf(el).some((l) => matches(l, s.value, s.exact))));
				break;
			case 'testid':
				set = unique(descendants(set, (el) => el.getAttribute('data-testid') === s.value));
				break;
			case 'nth': {
				const i = s.index < 0 ? set.length + s.index : s.index;
				set = i >= 0 && i < set.length ? [set[i]] : [];
				break;
			}
			case 'filter':
				set = set.filter((el) =>
					(!s.hasText || matches(el.textContent, s.hasText, false)) &&
					(!s.hasNotText || !matches(el.textContent, s.hasNotText, false)) &&
					(!s.has || resolve(s.has, [el]).length > 0) &&
					(!s.hasNot || resolve(s.hasNot, [el]).length === 0));
				break;
			case 'and': {
				const other = new Set(resolve(s.other, [document]));
				set = set.filter((el) => other.has(el));
				break;
			}
			case 'or':
				set = unique(set.concat(resolve(s.other, [document]))).sort(byDocument);
				break;
			default:
				throw new Error('unknown selector step ' + s.kind);
			}
			scoped = true;
		}
		return scoped ? set : [];
	};

	return resolve(steps, [document]);
}`
