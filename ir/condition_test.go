package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricelens/selectir/vocab"
)

func TestNewValueCondition(t *testing.T) {
	v := testVocab(t)
	price := qcol(t, v, "p", "price")
	category := qcol(t, v, "p", "category")

	cond, err := NewValueCondition(price, vocab.OpGte, Number(25))
	require.NoError(t, err)
	assert.Equal(t, vocab.OpGte, cond.Op)

	list, err := NewList(String("electronics"), String("books"))
	require.NoError(t, err)
	_, err = NewValueCondition(category, vocab.OpIn, list)
	require.NoError(t, err)

	_, err = NewValueCondition(category, vocab.OpLike, String("elec%"))
	require.NoError(t, err)
}

func TestNewValueCondition_OperatorValueMismatch(t *testing.T) {
	v := testVocab(t)
	price := qcol(t, v, "p", "price")
	category := qcol(t, v, "p", "category")

	list, err := NewList(Number(1), Number(2))
	require.NoError(t, err)

	// Membership needs a list.
	_, err = NewValueCondition(category, vocab.OpIn, String("electronics"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "require a list")

	_, err = NewValueCondition(category, vocab.OpNotIn, Number(1))
	require.Error(t, err)
	assert.True(t, IsShapeError(err))

	// A list makes sense only under membership.
	_, err = NewValueCondition(price, vocab.OpEq, list)
	require.Error(t, err)
	assert.True(t, IsShapeError(err))

	// LIKE patterns are strings.
	_, err = NewValueCondition(category, vocab.OpLike, Number(5))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "string pattern")

	_, err = NewValueCondition(price, "approx", Number(1))
	require.Error(t, err)
	assert.True(t, vocab.IsVocabularyError(err))
}

func TestNewColumnCondition(t *testing.T) {
	v := testVocab(t)
	mine := qcol(t, v, "p", "price")
	theirs := qcol(t, v, "c", "price")

	cond, err := NewColumnCondition(mine, vocab.OpGt, theirs)
	require.NoError(t, err)
	assert.Equal(t, "c", cond.Right.Table)
}

func TestNewColumnCondition_MembershipRejected(t *testing.T) {
	v := testVocab(t)
	mine := qcol(t, v, "p", "price")
	theirs := qcol(t, v, "c", "price")

	_, err := NewColumnCondition(mine, vocab.OpIn, theirs)
	require.Error(t, err)
	assert.True(t, IsShapeError(err))
	assert.Contains(t, err.Error(), "membership operators require a list")
}

func TestNewBetween(t *testing.T) {
	v := testVocab(t)
	price := qcol(t, v, "p", "price")
	category := qcol(t, v, "p", "category")

	_, err := NewBetween(price, Number(10), Number(50))
	require.NoError(t, err)

	// String ranges compare lexicographically; still well-typed.
	_, err = NewBetween(category, String("a"), String("m"))
	require.NoError(t, err)
}

func TestNewBetween_BadBounds(t *testing.T) {
	v := testVocab(t)
	price := qcol(t, v, "p", "price")

	_, err := NewBetween(price, Number(10), String("fifty"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "same type")

	_, err = NewBetween(price, Bool(true), Bool(false))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "strings or numbers")

	list, err := NewList(Number(1))
	require.NoError(t, err)
	_, err = NewBetween(price, list, Number(10))
	require.Error(t, err)
	assert.True(t, IsShapeError(err))
}

func TestNewConditionGroup(t *testing.T) {
	v := testVocab(t)
	price := qcol(t, v, "p", "price")
	rating := qcol(t, v, "p", "rating")

	g, err := NewConditionGroup(vocab.CombineAnd,
		valueCond(t, price, vocab.OpGte, Number(25)),
		valueCond(t, rating, vocab.OpGt, Number(4)),
	)
	require.NoError(t, err)
	assert.Len(t, g.Conditions, 2)
}

func TestNewConditionGroup_BadInput(t *testing.T) {
	v := testVocab(t)
	price := qcol(t, v, "p", "price")

	_, err := NewConditionGroup(vocab.CombineAnd)
	require.Error(t, err)
	assert.True(t, IsShapeError(err))

	_, err = NewConditionGroup("xor", valueCond(t, price, vocab.OpGt, Number(1)))
	require.Error(t, err)
	assert.True(t, vocab.IsVocabularyError(err))

	// The failing member is named by position.
	_, err = NewConditionGroup(vocab.CombineOr, valueCond(t, price, vocab.OpGt, Number(1)), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "condition 1")
}
