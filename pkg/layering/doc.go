// Package layering assigns initial card positions from the sender/receiver
// graph.
//
// Cards are arranged in columns from left to right so that every receiver
// sits strictly to the right of each of its senders:
//
//  1. [BreakCycles] removes back edges found by depth-first search, since a
//     cycle has no left-to-right order.
//  2. [AssignColumns] runs longest-path layering (Kahn's algorithm): sources
//     are at column 0 and every other card is one column right of its
//     deepest sender.
//  3. [Place] orders each column by the mean row of the cards' senders,
//     falling back to the card id, then stacks cards vertically.
//
// [Layout] runs all three steps.
package layering
