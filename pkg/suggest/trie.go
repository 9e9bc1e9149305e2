package suggest

import "github.com/tchap/go-patricia/v2/patricia"

// PrefixIndex is the vocabulary index used for prefix lookups.
//
// It sits on top of a patricia trie: every indexed word is a key whose node
// carries a non-nil item (the word's occurrence count), so "terminal" nodes
// are exactly the nodes holding an item. Internal nodes created by path
// compression never carry one.
type PrefixIndex struct {
	trie  *patricia.Trie
	words int
}

// NewPrefixIndex returns an empty index.
func NewPrefixIndex() *PrefixIndex {
	return &PrefixIndex{trie: patricia.NewTrie()}
}

// Insert indexes word once. Inserting a word that is already present, or the
// empty word, changes nothing.
func (pi *PrefixIndex) Insert(word string) {
	if word == "" {
		return
	}
	if pi.trie.Insert(patricia.Prefix(word), 1) {
		pi.words++
	}
}

// Add indexes word and bumps its occurrence count.
func (pi *PrefixIndex) Add(word string) {
	if word == "" {
		return
	}
	key := patricia.Prefix(word)
	if item := pi.trie.Get(key); item != nil {
		pi.trie.Set(key, item.(int)+1)
		return
	}
	pi.trie.Insert(key, 1)
	pi.words++
}

// Contains reports whether word itself was indexed. Being the prefix of some
// other word is not enough.
func (pi *PrefixIndex) Contains(word string) bool {
	if word == "" {
		return false
	}
	return pi.trie.Match(patricia.Prefix(word))
}

// Count returns how many times word was added, or 0 if it is not indexed.
func (pi *PrefixIndex) Count(word string) int {
	if word == "" {
		return 0
	}
	if item := pi.trie.Get(patricia.Prefix(word)); item != nil {
		return item.(int)
	}
	return 0
}

// WordsWithPrefix returns every indexed word starting with prefix, the
// prefix itself included when it is a word. Only the subtree below prefix is
// visited. The order of the result is not part of the contract.
func (pi *PrefixIndex) WordsWithPrefix(prefix string) []string {
	words := make([]string, 0)
	_ = pi.trie.VisitSubtree(patricia.Prefix(prefix), func(p patricia.Prefix, _ patricia.Item) error {
		words = append(words, string(p))
		return nil
	})
	return words
}

// Visit calls fn for every indexed word with its count, in byte order.
func (pi *PrefixIndex) Visit(fn func(word string, count int)) {
	_ = pi.trie.Visit(func(p patricia.Prefix, item patricia.Item) error {
		fn(string(p), item.(int))
		return nil
	})
}

// Len returns the number of distinct indexed words.
func (pi *PrefixIndex) Len() int {
	return pi.words
}
