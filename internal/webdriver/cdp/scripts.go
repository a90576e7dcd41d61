// internal/webdriver/cdp/scripts.go
package cdp

import (
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

// Every element function runs with `this` bound to the element's remote object. A handle whose
// node has left the document is reported as stale, matching WebDriver semantics.
const staleGuard = `if (this !== document && !this.isConnected) { throw new Error('stale element reference: element is not attached to the page document'); }`

var (
	findOneJS = `function(by, sel) {
	` + staleGuard + `
	if (by === 'xpath') {
		return document.evaluate(sel, this, null, XPathResult.FIRST_ORDERED_NODE_TYPE, null).singleNodeValue;
	}
	return this.querySelector(sel);
}`

	findAllJS = `function(by, sel) {
	` + staleGuard + `
	if (by === 'xpath') {
		const snap = document.evaluate(sel, this, null, XPathResult.ORDERED_NODE_SNAPSHOT_TYPE, null);
		const out = [];
		for (let i = 0; i < snap.snapshotLength; i++) { out.push(snap.snapshotItem(i)); }
		return out;
	}
	return Array.from(this.querySelectorAll(sel));
}`

	lengthJS = `function() { return this.length; }`

	indexJS = `function(i) { return this[i]; }`

	// clickPointJS scrolls the element to the centre of the viewport and returns its centre point,
	// refusing when another element sits on top of it.
	clickPointJS = `function() {
	` + staleGuard + `
	this.scrollIntoView({block: 'center', inline: 'center'});
	const r = this.getBoundingClientRect();
	const x = r.left + r.width / 2;
	const y = r.top + r.height / 2;
	const hit = document.elementFromPoint(x, y);
	if (hit && hit !== this && !this.contains(hit)) {
		let desc = hit.tagName.toLowerCase();
		if (hit.id) { desc += '#' + hit.id; }
		if (typeof hit.className === 'string' && hit.className.trim() !== '') {
			desc += '.' + hit.className.trim().split(/\s+/).join('.');
		}
		throw new Error('element click intercepted: other element would receive the click: ' + desc);
	}
	return {x: x, y: y};
}`

	centerPointJS = `function() {
	` + staleGuard + `
	const r = this.getBoundingClientRect();
	return {x: r.left + r.width / 2, y: r.top + r.height / 2};
}`

	// focusJS focuses the element and reports whether it is a file input.
	focusJS = `function() {
	` + staleGuard + `
	this.focus();
	return this.tagName === 'INPUT' && this.type === 'file';
}`

	clearJS = `function() {
	` + staleGuard + `
	if ('value' in this) {
		this.value = '';
	} else if (this.isContentEditable) {
		this.textContent = '';
	}
	this.dispatchEvent(new Event('input', {bubbles: true}));
	this.dispatchEvent(new Event('change', {bubbles: true}));
}`

	textJS = `function() {
	` + staleGuard + `
	return (typeof this.innerText === 'string' ? this.innerText : this.textContent || '').trim();
}`

	attributeJS = `function(name) {
	` + staleGuard + `
	if (['value', 'checked', 'selected', 'disabled'].includes(name) && name in this) {
		const v = this[name];
		return {ok: v !== null && v !== undefined, value: v === null || v === undefined ? '' : String(v)};
	}
	const v = this.getAttribute(name);
	return {ok: v !== null, value: v === null ? '' : v};
}`

	displayedJS = `function() {
	` + staleGuard + `
	const style = window.getComputedStyle(this);
	if (style.display === 'none' || style.visibility === 'hidden' || style.visibility === 'collapse' || Number(style.opacity) === 0) {
		return false;
	}
	const r = this.getBoundingClientRect();
	return r.width > 0 && r.height > 0;
}`

	scrollJS = `function(centered) {
	` + staleGuard + `
	if (centered) {
		this.scrollIntoView({block: 'center'});
	} else {
		this.scrollIntoView(true);
	}
}`
)

type point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type attribute struct {
	OK    bool   `json:"ok"`
	Value string `json:"value"`
}

// documentCall builds an expression that applies fn to document with literal arguments.
func documentCall(fn string, args ...any) (string, error) {
	lits := make([]string, 0, len(args))
	for _, a := range args {
		lit, err := jsoniter.MarshalToString(a)
		if err != nil {
			return "", fmt.Errorf("encoding script argument: %w", err)
		}
		lits = append(lits, lit)
	}
	expr := "(" + fn + ").call(document"
	for _, lit := range lits {
		expr += ", " + lit
	}
	return expr + ")", nil
}
