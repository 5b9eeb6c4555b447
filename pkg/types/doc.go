// Package types defines the Store interface, the Item and Label entities,
// and the standard errors for the toodle storage system.
//
// Items and labels are plain values. Labels are carried by value on items;
// two snapshots of the same label are equal when their id, name and color
// match, but each snapshot is owned independently.
package types
