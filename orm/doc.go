/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
Each bucket holds a set of Models of one type, serialized
by the model itself. Secondary indexes are maintained
automatically when a model is saved or deleted and may be
used to look up primary keys, as well as exposed through
the query router.
*/
package orm
